package correct

import (
	"bytes"

	"github.com/mudesheng/ecc/overlap"
)

// refineOverlap implements C5: given a shared k-mer anchor between query and
// candidate, pick the banded extension when the anchor k-mer occurs exactly
// once in both sequences, falling back to the full O(len(query)*len(cand))
// overlapper when it occurs more than once in either — mirroring the
// "secondary occurrence" check in overlapCorrectionNew.
func refineOverlap(svc overlap.Service, query, cand, anchorKmer []byte, queryPos, candPos int, band int) (overlap.Overlap, bool) {
	if secondOccurrence(query, anchorKmer, queryPos) || secondOccurrence(cand, anchorKmer, candPos) {
		return svc.ComputeOverlap(query, cand)
	}
	return svc.ExtendMatch(query, cand, queryPos, candPos, band)
}

// secondOccurrence reports whether kmer occurs in seq at a position after
// firstPos; positions before firstPos are not searched.
func secondOccurrence(seq, kmer []byte, firstPos int) bool {
	if firstPos+1 >= len(seq) {
		return false
	}
	return bytes.Index(seq[firstPos+1:], kmer) >= 0
}

// acceptOverlap applies the minOverlap/minIdentity thresholds (spec.md
// §4.5), identity expressed as 0-100 on ov.PercentIdentity.
func acceptOverlap(ov overlap.Overlap, p Params) bool {
	return ov.Length >= p.MinOverlap && ov.PercentIdentity/100 >= p.MinIdentity
}
