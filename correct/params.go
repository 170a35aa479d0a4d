// Package correct implements the read error-correction algorithms: C1-C9
// of the specification. It consumes the fmindex, overlap, and qualtable
// packages as its external collaborators and never performs I/O itself.
package correct

import "github.com/mudesheng/ecc/qualtable"

// Algorithm selects which correction path the dispatcher (C9) runs.
type Algorithm int

const (
	// KMER runs only the k-mer corrector (C3).
	KMER Algorithm = iota
	// OVERLAP runs only the index-driven seed-and-extend corrector (C7).
	OVERLAP
	// HYBRID tries KMER first, falling back to the legacy overlap
	// corrector (C8) on the original read if k-mer QC fails.
	HYBRID
)

func (a Algorithm) String() string {
	switch a {
	case KMER:
		return "KMER"
	case OVERLAP:
		return "OVERLAP"
	case HYBRID:
		return "HYBRID"
	default:
		return "UNKNOWN"
	}
}

// Params are the per-run correction parameters (spec.md §3), immutable
// once built and safe to share (by value) across workers.
type Params struct {
	Algorithm       Algorithm
	KmerLength      int
	NumKmerRounds   int
	NumOverlapRounds int
	MinOverlap      int
	MinIdentity     float64 // in [0,1]
	ConflictCutoff  int
	// DepthFilter short-circuits legacy overlap correction for
	// pathological high-copy regions; 0 disables the check. Defaults to
	// 10000, matching ErrorCorrectProcess's constructor override.
	DepthFilter  int
	PrintOverlaps bool
	Quality      qualtable.Table
}

// DefaultParams returns sane defaults, matching the original's
// constructor-forced depthFilter of 10000.
func DefaultParams() Params {
	return Params{
		Algorithm:        HYBRID,
		KmerLength:       31,
		NumKmerRounds:    10,
		NumOverlapRounds: 3,
		MinOverlap:       29,
		MinIdentity:      0.95,
		ConflictCutoff:   5,
		DepthFilter:      10000,
		Quality:          qualtable.Default(),
	}
}

// Result is the outcome of correcting one read (spec.md §3). At most one
// of KmerQC/OverlapQC is true; if both are false the read is a QC
// failure and CorrectedSeq equals the original.
type Result struct {
	CorrectedSeq      []byte
	KmerQC            bool
	OverlapQC         bool
	NumPrefixOverlaps int
	NumSuffixOverlaps int
}

// Failed reports whether neither QC path accepted the read.
func (r Result) Failed() bool {
	return !r.KmerQC && !r.OverlapQC
}
