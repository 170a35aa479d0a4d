// Package overlaptest is a small reference pairwise-alignment service used
// only by this module's own tests. The production overlap/alignment
// library is an external collaborator (spec.md §1, out of scope); this
// package gives the seed-and-extend and legacy correctors something real
// to call in unit tests, grounded in the same edit-distance-by-DP idiom
// the pack's own alignment examples use (shenwei356-wfa,
// hmmm42-DNA-Sequence-Alignments), simplified since alignment quality
// here only needs to be good enough to exercise the corrector logic, not
// to be production-grade.
package overlaptest

import (
	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/overlap"
)

// Service is an in-memory overlap.Service over a fixed read collection,
// used by the correctors' tests.
type Service struct {
	reads [][]byte
	calls int // number of OverlapRead/ComputeOverlap/ExtendMatch invocations, for test assertions
}

// NewService builds a Service over reads (indexed by position, matching
// bioseq.Read.Idx semantics).
func NewService(reads [][]byte) *Service {
	return &Service{reads: reads}
}

// Calls reports how many times this service was invoked (OverlapRead,
// ComputeOverlap, or ExtendMatch), letting tests assert a path (e.g. hybrid
// dispatch) never touched this service.
func (s *Service) Calls() int { return s.calls }

// editDistance computes the Levenshtein distance between x and y with the
// classic O(len(x)*len(y)) DP, the same table-filling shape as every DP
// aligner in the pack.
func editDistance(x, y []byte) int {
	n, m := len(x), len(y)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if x[i-1] == y[j-1] {
				cost = 0
			}
			sub := prev[j-1] + cost
			del := prev[j] + 1
			ins := curr[j-1] + 1
			curr[j] = min3(sub, del, ins)
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// bestOverlap tries every overlap length between the suffix of a and the
// prefix of b, returning the length maximizing identity*length (a longer,
// still-identical overlap beats a shorter perfect one, and vice versa).
func bestOverlap(a, b []byte) (overlap.Overlap, bool) {
	maxLen := len(a)
	if len(b) < maxLen {
		maxLen = len(b)
	}
	var best overlap.Overlap
	var bestScore float64 = -1
	found := false
	for k := 1; k <= maxLen; k++ {
		suf := a[len(a)-k:]
		pre := b[:k]
		dist := editDistance(suf, pre)
		identity := 100 * float64(k-dist) / float64(k)
		if identity < 0 {
			identity = 0
		}
		score := identity * float64(k)
		if score > bestScore {
			bestScore = score
			best = overlap.Overlap{
				Length:          k,
				PercentIdentity: identity,
				Start0:          len(a) - k,
				End0:            len(a),
				Start1:          0,
				End1:            k,
			}
			found = true
		}
	}
	return best, found
}

// ComputeOverlap implements overlap.Service: the full O(len(a)*len(b))
// overlapper, trying both orientations (a's suffix against b's prefix,
// and b's suffix against a's prefix) and keeping the stronger one.
func (s *Service) ComputeOverlap(a, b []byte) (overlap.Overlap, bool) {
	s.calls++
	forward, okF := bestOverlap(a, b)
	backward, okB := bestOverlap(b, a)
	switch {
	case okF && okB:
		if forward.Length >= backward.Length {
			return forward, true
		}
		// backward overlap is b's suffix vs a's prefix; swap the Start/End
		// fields back into a's-then-b's frame for the caller.
		backward.Start0, backward.End0, backward.Start1, backward.End1 =
			backward.Start1, backward.End1, backward.Start0, backward.End0
		return backward, true
	case okF:
		return forward, true
	case okB:
		backward.Start0, backward.End0, backward.Start1, backward.End1 =
			backward.Start1, backward.End1, backward.Start0, backward.End0
		return backward, true
	default:
		return overlap.Overlap{}, false
	}
}

// ExtendMatch implements overlap.Service's banded extension: starting from
// a shared anchor at (posA, posB), it walks outward in both directions
// comparing bases directly. This is an ungapped simplification of a true
// banded DP (no indel search within the band) — acceptable here because
// this package only serves the module's own tests, where exercising the
// dispatch between ExtendMatch and ComputeOverlap matters more than
// alignment fidelity.
func (s *Service) ExtendMatch(a, b []byte, posA, posB, band int) (overlap.Overlap, bool) {
	s.calls++
	if posA < 0 || posB < 0 || posA >= len(a) || posB >= len(b) {
		return overlap.Overlap{}, false
	}
	// extend left
	li, lj := posA, posB
	for li > 0 && lj > 0 && a[li-1] == b[lj-1] {
		li--
		lj--
	}
	// extend right
	ri, rj := posA, posB
	for ri < len(a)-1 && rj < len(b)-1 && a[ri+1] == b[rj+1] {
		ri++
		rj++
	}
	start0, end0 := li, ri+1
	start1, end1 := lj, rj+1
	length := end0 - start0
	if length <= 0 || length > len(a) || end1-start1 != length {
		return overlap.Overlap{}, false
	}
	matches := 0
	for k := 0; k < length; k++ {
		if a[start0+k] == b[start1+k] {
			matches++
		}
	}
	identity := 100 * float64(matches) / float64(length)
	return overlap.Overlap{
		Length:          length,
		PercentIdentity: identity,
		Start0:          start0, End0: end0,
		Start1: start1, End1: end1,
	}, true
}

// OverlapRead implements overlap.Service by scanning the in-memory
// collection for prefix/suffix overlaps of at least minOverlap, grouping
// identical-overlap reads into a single Block the way the FM-index
// naturally would.
func (s *Service) OverlapRead(seq []byte, minOverlap int) ([]overlap.Block, error) {
	s.calls++
	type key struct {
		prefix bool
		length int
		seq    string
	}
	groups := map[key][]int{}
	for _, cand := range s.reads {
		if string(cand) == string(seq) {
			continue
		}
		if ov, ok := bestOverlap(seq, cand); ok && ov.Length >= minOverlap && ov.PercentIdentity >= 100 {
			k := key{prefix: false, length: ov.Length, seq: string(cand)}
			groups[k] = append(groups[k], ov.Length)
		}
		if ov, ok := bestOverlap(cand, seq); ok && ov.Length >= minOverlap && ov.PercentIdentity >= 100 {
			k := key{prefix: true, length: ov.Length, seq: string(cand)}
			groups[k] = append(groups[k], ov.Length)
		}
	}
	var blocks []overlap.Block
	for k, weights := range groups {
		iv := fmindex.Interval{Lower: 0, Upper: int64(len(weights)) - 1}
		blocks = append(blocks, overlap.Block{
			Interval0:     iv,
			Interval1:     iv,
			Seq:           []byte(k.seq),
			PrefixOverlap: k.prefix,
			OverlapLen:    k.length,
		})
	}
	return blocks, nil
}
