package correct

import (
	"fmt"
	"io"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/overlap"
)

// Corrector is the top-level entry point (C9's dispatcher plus its
// collaborators), wired to one FM-index, one suffix-array sample, and one
// overlap service for the lifetime of a correction run. It is not safe for
// concurrent use by multiple goroutines — callers needing parallelism
// construct one Corrector per worker over the same (read-only, concurrency
// safe) Index/SuffixArraySample/Service.
type Corrector struct {
	Idx    fmindex.Index
	SSA    fmindex.SuffixArraySample
	Svc    overlap.Service
	Params Params

	// Diag receives the printOverlaps diagnostic stream (D.7); nil (or
	// io.Discard) suppresses it.
	Diag io.Writer
}

// NewCorrector builds a Corrector with its diagnostic sink defaulted to
// io.Discard.
func NewCorrector(idx fmindex.Index, ssa fmindex.SuffixArraySample, svc overlap.Service, p Params) *Corrector {
	return &Corrector{Idx: idx, SSA: ssa, Svc: svc, Params: p, Diag: io.Discard}
}

// Correct runs read through the algorithm selected by c.Params.Algorithm
// (C9). read.Idx is the read's own id within the index, excluded from its
// own overlap matches; read.Idx is only used by OVERLAP, since neither
// kmerCorrection nor the HYBRID legacy fallback consults the suffix array.
func (c *Corrector) Correct(read bioseq.Read) Result {
	diag := c.Diag
	if diag == nil {
		diag = io.Discard
	}

	phredAt := func(i int) int { return read.PhredScore(i) }

	var result Result
	switch c.Params.Algorithm {
	case KMER:
		result = kmerCorrection(c.Idx, c.Params, read.Seq, phredAt)
	case OVERLAP:
		result = indexOverlapCorrection(c.Idx, c.SSA, c.Svc, c.Params, read.Seq, read.Idx, diag)
	case HYBRID:
		kmerResult := kmerCorrection(c.Idx, c.Params, read.Seq, phredAt)
		if kmerResult.KmerQC {
			result = kmerResult
		} else {
			// fall back to the legacy overlap corrector on the ORIGINAL
			// read, not kmerResult's partially-corrected (and QC-failed)
			// sequence, matching overlapCorrection(workItem) being handed
			// the unmodified workItem.read.
			result = legacyOverlapCorrection(c.Svc, c.Params, read.Seq, diag)
		}
	default:
		result = Result{CorrectedSeq: append([]byte(nil), read.Seq...)}
	}

	if result.Failed() && c.Params.PrintOverlaps {
		fmt.Fprintf(diag, "%s failed error correction QC\n", read.ID)
	}

	if c.Params.PrintOverlaps {
		fmt.Fprintf(diag, "OS:     %s\n", read.Seq)
		fmt.Fprintf(diag, "CS:     %s\n", result.CorrectedSeq)
		fmt.Fprintf(diag, "DS:     %s\n", bioseq.DiffString(read.Seq, result.CorrectedSeq))
		fmt.Fprintf(diag, "QS:     %s\n", read.Qual)
		qc := "fail"
		if !result.Failed() {
			qc = "pass"
		}
		fmt.Fprintf(diag, "QC: %s\n\n", qc)
	}

	return result
}
