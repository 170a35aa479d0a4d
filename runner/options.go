// Package runner wires the correction core into a CLI-driven worker pool:
// it reads Options from the command line (A.1), loads reads from an input
// file, fans them out across correction workers, and fans the results back
// into a single postprocess.Processor goroutine, patterned directly on
// preprocess.paraCorrectReadsFile / paraMapNGSAndCorrect / writeCorrectReads.
package runner

import (
	"log"

	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/ecc/correct"
	"github.com/mudesheng/ecc/qualtable"
	"github.com/mudesheng/ecc/utils"
)

// Options is the fully-resolved set of arguments one correction run needs,
// gathered from the global flags (utils.ArgsOpt) and the "correct"
// subcommand's own flags.
type Options struct {
	Prefix     string
	CfgFn      string
	Cpuprofile string
	NumCPU     int
	Input      string

	Params correct.Params
}

func parseAlgorithm(s string) (correct.Algorithm, bool) {
	switch s {
	case "KMER":
		return correct.KMER, true
	case "OVERLAP":
		return correct.OVERLAP, true
	case "HYBRID":
		return correct.HYBRID, true
	default:
		return 0, false
	}
}

// CheckArgs validates the global flags plus the "correct" subcommand's own
// flags, following checkArgs/CheckGlobalArgs's log.Fatalf-on-malformed-input
// idiom: the CLI boundary is not a place the library needs to return a
// recoverable error.
func CheckArgs(c cli.Command) (opt Options, succ bool) {
	gOpt, ok := utils.CheckGlobalArgs(c.Parent())
	if !ok {
		log.Fatalf("[CheckArgs] check global arguments error, opt: %v\n", gOpt)
	}

	algo, ok := parseAlgorithm(gOpt.Algorithm)
	if !ok {
		log.Fatalf("[CheckArgs] args 'A': %v not one of KMER|OVERLAP|HYBRID\n", gOpt.Algorithm)
	}

	opt.Prefix = gOpt.Prefix
	opt.CfgFn = gOpt.CfgFn
	opt.Cpuprofile = gOpt.Cpuprofile
	opt.NumCPU = gOpt.NumCPU

	opt.Input = c.Flag("i").String()
	if opt.Input == "" {
		log.Fatalf("[CheckArgs] args 'i' not set\n")
	}

	quality := qualtable.Default()
	if opt.CfgFn != "" {
		f, err := openConfigFile(opt.CfgFn)
		if err != nil {
			log.Fatalf("[CheckArgs] failed to open config file: %v, err: %v\n", opt.CfgFn, err)
		}
		defer f.Close()
		quality, err = qualtable.ParseConfig(f)
		if err != nil {
			log.Fatalf("[CheckArgs] failed to parse config file: %v, err: %v\n", opt.CfgFn, err)
		}
	}

	p := correct.Params{
		Algorithm:        algo,
		KmerLength:       gOpt.Kmer,
		NumKmerRounds:    c.Flag("numKmerRounds").Get().(int),
		NumOverlapRounds: c.Flag("numOverlapRounds").Get().(int),
		MinOverlap:       c.Flag("minOverlap").Get().(int),
		MinIdentity:      c.Flag("minIdentity").Get().(float64),
		ConflictCutoff:   c.Flag("conflictCutoff").Get().(int),
		DepthFilter:      c.Flag("depthFilter").Get().(int),
		PrintOverlaps:    c.Flag("printOverlaps").Get().(bool),
		Quality:          quality,
	}
	opt.Params = p

	return opt, true
}
