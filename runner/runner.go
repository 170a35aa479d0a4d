package runner

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/correct"
	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/overlap"
	"github.com/mudesheng/ecc/postprocess"
)

// outcome pairs a read with its correction result. An outcome with done set
// is the worker-done sentinel, the counterpart of writeCorrectReads counting
// ri.ID == 0.
type outcome struct {
	read   bioseq.Read
	result correct.Result
	done   bool
}

// correctWorker pulls reads off cs, runs them through cor, and pushes
// outcomes onto wc, exactly as paraMapNGSAndCorrect pulls ReadInfo off cs
// and pushes ReadInfo onto wc. It sends one done sentinel on cs's close.
func correctWorker(cs <-chan bioseq.Read, wc chan<- outcome, cor *correct.Corrector) {
	for read := range cs {
		wc <- outcome{read: read, result: cor.Correct(read)}
	}
	wc <- outcome{done: true}
}

// drainResults runs on a single goroutine (the Processor is not
// concurrency-safe), counting done sentinels exactly as writeCorrectReads
// counts finishNum == numCPU before returning.
func drainResults(wc <-chan outcome, numCPU int, proc *postprocess.Processor) (processed int) {
	finished := 0
	for o := range wc {
		if o.done {
			finished++
			if finished == numCPU {
				break
			}
			continue
		}
		proc.Process(o.read, o.result)
		processed++
	}
	return processed
}

// Run executes one correction pass over opt.Input: it loads reads, fans
// them across opt.NumCPU correct.Corrector workers sharing idx/ssa/svc,
// and feeds the results to a single postprocess.Processor, patterned on
// paraCorrectReadsFile's loader-goroutine/worker-goroutines/writer shape.
func Run(opt Options, idx fmindex.Index, ssa fmindex.SuffixArraySample, svc overlap.Service) error {
	t0 := time.Now()
	numCPU := opt.NumCPU
	if numCPU < 1 {
		numCPU = 1
	}

	correctedFn := opt.Prefix + ".corrected.fq.zst"
	discardFn := opt.Prefix + ".discard.fq.zst"

	correctedSink, err := newSink(correctedFn)
	if err != nil {
		return fmt.Errorf("[Run] failed to open corrected sink: %v, err: %w", correctedFn, err)
	}
	defer correctedSink.Close()

	discardSink, err := newSink(discardFn)
	if err != nil {
		return fmt.Errorf("[Run] failed to open discard sink: %v, err: %w", discardFn, err)
	}
	defer discardSink.Close()

	proc := postprocess.NewProcessor(correctedSink, discardSink, true)

	bufSize := 8000
	cs := make(chan bioseq.Read, bufSize)
	wc := make(chan outcome, bufSize)

	fmt.Printf("[Run] begin processing file: %v with %d workers\n", opt.Input, numCPU)
	go loadReads(opt.Input, cs)
	for j := 0; j < numCPU; j++ {
		cor := correct.NewCorrector(idx, ssa, svc, opt.Params)
		cor.Diag = os.Stdout
		go correctWorker(cs, wc, cor)
	}

	processed := drainResults(wc, numCPU, proc)

	fmt.Printf("[Run] processed %d reads in %v\n", processed, time.Since(t0))
	fmt.Print(proc.Summary())
	if m := proc.Metrics(); m != nil {
		m.Write(logWriter{})
	}
	return nil
}

// logWriter adapts the package's bracketed-prefix console logging into an
// io.Writer for Metrics.Write, so the metrics tables land on the same
// stdout stream as every other [Component] print in this module.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	fmt.Print(string(p))
	return len(p), nil
}

// IndexLoader builds the FM-index, suffix-array sample, and overlap
// service a correction run needs. The production FM-index/overlap backend
// is an external collaborator (spec.md §1); wiring a real one in is the
// seam this type exists for. DefaultIndexLoader below is the stand-in that
// tells an operator so, rather than silently correcting against an empty
// index.
type IndexLoader func(opt Options) (fmindex.Index, fmindex.SuffixArraySample, overlap.Service, error)

// DefaultIndexLoader always fails: this module owns the correction core,
// not the FM-index/overlap backend it runs against. A caller of Correct
// installs its own IndexLoader, wired to a real index, through
// SetIndexLoader.
func DefaultIndexLoader(opt Options) (fmindex.Index, fmindex.SuffixArraySample, overlap.Service, error) {
	return nil, nil, nil, fmt.Errorf("[DefaultIndexLoader] no FM-index/overlap backend configured; supply a runner.IndexLoader")
}

// loader is the IndexLoader Correct uses; overridable for tests and for a
// host binary that wires in its own backend.
var loader IndexLoader = DefaultIndexLoader

// SetIndexLoader installs the IndexLoader Correct uses to obtain its
// FM-index/suffix-array/overlap-service collaborators.
func SetIndexLoader(l IndexLoader) {
	if l == nil {
		l = DefaultIndexLoader
	}
	loader = l
}

// Correct is the "correct" subcommand's action function, the runner
// counterpart of preprocess.Correct: validate args, resolve the backend
// collaborators, and run the worker pool.
func Correct(c cli.Command) {
	opt, succ := CheckArgs(c)
	if !succ {
		log.Fatalf("[Correct] check arguments error, opt: %v\n", opt)
	}

	idx, ssa, svc, err := loader(opt)
	if err != nil {
		log.Fatalf("[Correct] failed to load FM-index/overlap backend, err: %v\n", err)
	}

	if err := Run(opt, idx, ssa, svc); err != nil {
		log.Fatalf("[Correct] run failed, err: %v\n", err)
	}
}
