// Package overlap declares the per-base overlap/alignment service this
// module consumes from its host (spec.md §6), plus the two overlap-driven
// data structures the correctors build on top of it: the multiple
// alignment used by the seed-and-extend path (kept in package correct,
// since it is k-mer-seed specific) and the masked multi-overlap pile used
// by the legacy corrector (C8, kept here since it is a direct cousin of
// the Block/Overlap types this package already owns).
package overlap

import (
	"fmt"
	"io"

	"github.com/mudesheng/ecc/fmindex"
)

// Overlap is the result of aligning two sequences, the Go shape of SGA's
// SequenceOverlap.
type Overlap struct {
	Length          int
	PercentIdentity float64 // 0-100, as returned by the overlap service
	// Start0/End0 and Start1/End1 bound the aligned region within each
	// input sequence, needed to project an overlap onto multiple-alignment
	// columns (spec.md §4.6).
	Start0, End0 int
	Start1, End1 int
}

// Block is one compressed overlap block as returned by OverlapRead: a set
// of reads that all share the same prefix/suffix overlap with the query,
// represented the way the FM-index naturally groups them (an interval of
// matching rows) rather than as individually-enumerated reads.
type Block struct {
	// Interval0, Interval1 are ranges.interval[0]/[1] of the original;
	// their sizes must agree, and Interval0.Size() is this block's read
	// count (its "weight" in the consensus pile).
	Interval0, Interval1 fmindex.Interval
	// Seq is a representative sequence for the reads this block groups;
	// all reads in a block share the same aligned region by construction.
	Seq []byte
	// PrefixOverlap is true when these reads overlap the query's prefix
	// (their suffix matches the query's start), false when they overlap
	// the query's suffix (their prefix matches the query's end).
	PrefixOverlap bool
	OverlapLen    int
}

// Service is the pairwise alignment surface the core queries.
// Implementations must be safe for concurrent use by multiple workers.
type Service interface {
	// OverlapRead returns the overlap blocks for seq at minOverlap,
	// grouped exactly as BWTAlgorithms groups them in the original.
	OverlapRead(seq []byte, minOverlap int) ([]Block, error)
	// ComputeOverlap is the full O(len(a)*len(b)) dynamic-programming
	// overlap, used when a seed k-mer is ambiguous in either sequence.
	ComputeOverlap(a, b []byte) (Overlap, bool)
	// ExtendMatch is the banded overlap extension centered at (posA,
	// posB), used when the seed k-mer occurs exactly once in both
	// sequences.
	ExtendMatch(a, b []byte, posA, posB, band int) (Overlap, bool)
}

// MultiOverlapPile is the legacy corrector's (C8) masked block-list: a
// base read plus the set of overlap blocks stacked onto its prefix or
// suffix columns. Unlike the seed-driven multipleAlignment (package
// correct), every row here carries an integer weight (the block's read
// count) rather than being one row per read, matching how the legacy path
// works directly off FM-index-compressed blocks rather than individually
// extracted sequences.
type MultiOverlapPile struct {
	base  []byte
	rows  []pileRow
	final []byte // set by UpdateRootSeq; nil until then
}

type pileRow struct {
	seq        []byte
	baseOffset int // column in base coordinates where seq[0] projects
	weight     int64
	prefix     bool
}

// NewMultiOverlapPile starts a pile rooted at base.
func NewMultiOverlapPile(base []byte) *MultiOverlapPile {
	cp := make([]byte, len(base))
	copy(cp, base)
	return &MultiOverlapPile{base: cp}
}

// AddBlock masks b onto the pile's base-read columns.
func (p *MultiOverlapPile) AddBlock(b Block) {
	weight := b.Interval0.Size()
	if weight <= 0 {
		weight = 1
	}
	var offset int
	if b.PrefixOverlap {
		// the block's reads' suffix covers base[0:OverlapLen]; seq[0]
		// therefore projects to column OverlapLen-len(seq).
		offset = b.OverlapLen - len(b.Seq)
	} else {
		// the block's reads' prefix covers base[len(base)-OverlapLen:]
		offset = len(p.base) - b.OverlapLen
	}
	p.rows = append(p.rows, pileRow{seq: b.Seq, baseOffset: offset, weight: weight, prefix: b.PrefixOverlap})
}

// CountOverlaps sums the block weights by orientation, mirroring
// MultiOverlap::countOverlaps.
func (p *MultiOverlapPile) CountOverlaps() (prefix, suffix int) {
	for _, r := range p.rows {
		if r.prefix {
			prefix += int(r.weight)
		} else {
			suffix += int(r.weight)
		}
	}
	return
}

// votesAt returns, for base column col, a map from base byte to the total
// weight voting for it (the base read itself always contributes weight 1).
func (p *MultiOverlapPile) votesAt(col int) map[byte]int64 {
	votes := map[byte]int64{p.base[col]: 1}
	for _, r := range p.rows {
		j := col - r.baseOffset
		if j < 0 || j >= len(r.seq) {
			continue
		}
		votes[r.seq[j]] += r.weight
	}
	return votes
}

// ConsensusConflict computes a column-wise consensus that refuses to call
// a column whose second-most-supported base exceeds conflictCutoff,
// falling back to the base read's own byte at that column. pError is
// accepted for interface parity with the original consensusConflict
// signature; this module's conflict rule is the integer vote-count cutoff
// documented in SPEC_FULL.md D.4 rather than the original's
// probabilistic model, since the original MultiOverlap implementation
// itself is not part of the retrieved source.
func (p *MultiOverlapPile) ConsensusConflict(pError float64, conflictCutoff int) []byte {
	_ = pError
	out := make([]byte, len(p.base))
	for col := range p.base {
		votes := p.votesAt(col)
		best, second := byte(0), int64(-1)
		var bestCount int64 = -1
		for b, c := range votes {
			if c > bestCount {
				second = bestCount
				bestCount = c
				best = b
			} else if c > second {
				second = c
			}
		}
		if second > int64(conflictCutoff) {
			out[col] = p.base[col]
		} else {
			out[col] = best
		}
	}
	return out
}

// UpdateRootSeq replaces the pile's root sequence with seq, used once the
// correction loop has converged to run a final QCCheck against it.
func (p *MultiOverlapPile) UpdateRootSeq(seq []byte) {
	p.final = append([]byte(nil), seq...)
}

// QCCheck reports whether the (UpdateRootSeq-set) final sequence matches
// the plurality vote at every column the pile has coverage for.
func (p *MultiOverlapPile) QCCheck() bool {
	root := p.final
	if root == nil {
		root = p.base
	}
	for col := 0; col < len(p.base) && col < len(root); col++ {
		votes := p.votesAt(col)
		if len(votes) <= 1 {
			continue // only the base read covers this column; nothing to conflict with
		}
		var bestCount int64 = -1
		var best byte
		for b, c := range votes {
			if c > bestCount {
				bestCount = c
				best = b
			}
		}
		if best != root[col] {
			return false
		}
	}
	return true
}

// PrintMasked writes a simple pileup rendering for diagnostics (the
// printOverlaps path, restored per SPEC_FULL.md D.7).
func (p *MultiOverlapPile) PrintMasked(w io.Writer) {
	fmt.Fprintf(w, "base:   %s\n", p.base)
	for _, r := range p.rows {
		indent := r.baseOffset
		if indent < 0 {
			indent = 0
		}
		fmt.Fprintf(w, "ovl:    %*s%s (w=%d)\n", indent, "", r.seq, r.weight)
	}
}
