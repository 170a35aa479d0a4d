package main

import (
	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/ecc/runner"
)

const Kmerdef = 31

var app = cli.New("1.0.0", "Error-correct short sequencing reads", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("C", "", "configure file supplying the quality/support table (qualtable.ParseConfig format); empty uses the built-in default table")
	app.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
	app.DefineIntFlag("K", Kmerdef, "kmer length")
	app.DefineStringFlag("p", "./ecc_out", "prefix of the output files")
	app.DefineIntFlag("t", 1, "number of correction workers")
	app.DefineStringFlag("A", "HYBRID", "correction algorithm: KMER|OVERLAP|HYBRID")

	correctCmd := app.DefineSubCommand("correct", "error-correct a collection of reads", runner.Correct)
	{
		correctCmd.DefineStringFlag("i", "", "input reads file (*.fa|*.fasta|*.fq|*.fastq, optionally .zst compressed)")
		correctCmd.DefineIntFlag("numKmerRounds", 10, "max rounds of the kmer corrector before giving up")
		correctCmd.DefineIntFlag("numOverlapRounds", 3, "max rounds of the overlap correctors")
		correctCmd.DefineIntFlag("minOverlap", 29, "minimum accepted overlap length")
		correctCmd.DefineFloat64Flag("minIdentity", 0.95, "minimum accepted overlap identity [0,1]")
		correctCmd.DefineIntFlag("conflictCutoff", 5, "legacy overlap corrector's second-vote conflict cutoff")
		correctCmd.DefineIntFlag("depthFilter", 10000, "legacy overlap corrector's pile depth short-circuit")
		correctCmd.DefineBoolFlag("printOverlaps", false, "write per-read correction diagnostics to stdout")
	}
}

func main() {
	app.Start()
}
