// Package utils holds the CLI argument-validation helper shared by the
// root command and its subcommands.
package utils

import (
	"log"

	"github.com/jwaldrip/odin/cli"
)

type ArgsOpt struct {
	Prefix     string
	Kmer       int
	NumCPU     int
	CfgFn      string
	Cpuprofile string
	Algorithm  string
}

// return global arguments and check if successed
func CheckGlobalArgs(c cli.Command) (opt ArgsOpt, succ bool) {
	opt.Prefix = c.Flag("p").String()
	if opt.Prefix == "" {
		log.Fatalf("[CheckGlobalArgs] args 'p' not set\n")
	}
	opt.CfgFn = c.Flag("C").String()
	opt.Cpuprofile = c.Flag("cpuprofile").String()
	if opt.Cpuprofile == "" {
		log.Fatalf("[CheckGlobalArgs] args 'cpuprofile' not set\n")
	}
	opt.Algorithm = c.Flag("A").String()
	if opt.Algorithm == "" {
		log.Fatalf("[CheckGlobalArgs] args 'A' not set\n")
	}

	var ok bool
	opt.Kmer, ok = c.Flag("K").Get().(int)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 'K' : %v set error\n", c.Flag("K").String())
	}
	opt.NumCPU, ok = c.Flag("t").Get().(int)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 't': %v set error\n", c.Flag("t").String())
	}
	return opt, true
}
