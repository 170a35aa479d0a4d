package correct

import (
	"fmt"
	"io"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/overlap"
)

// multipleAlignment implements C6: the seed-and-extend corrector's
// column-consensus structure. Rows are projected onto the base sequence's
// coordinate system through the Start0/End0 (base) and Start1/End1 (other)
// fields of the overlap.Overlap that anchored them, the same projection the
// original's MultipleAlignment performs when addOverlap pads a row to align
// its columns with the base. The base row itself is not reproduced in the
// retrieved source (multiple_alignment.cpp is not part of original_source),
// so this is an original-but-faithful implementation of the addBaseSequence
// / addOverlap / calculateBaseConsensus contract exercised by
// overlapCorrectionNew.
type multipleAlignment struct {
	base []byte
	rows []maRow
}

type maRow struct {
	seq    []byte
	offset int // column in base coordinates where seq[0] projects
}

// addBaseSequence seeds the alignment with its base row.
func (ma *multipleAlignment) addBaseSequence(seq []byte) {
	ma.base = append([]byte(nil), seq...)
}

// addOverlap adds seq to the alignment at the column offset implied by ov,
// an Overlap computed between the base sequence (sequence 0) and seq
// (sequence 1).
func (ma *multipleAlignment) addOverlap(seq []byte, ov overlap.Overlap) {
	offset := ov.Start0 - ov.Start1
	ma.rows = append(ma.rows, maRow{seq: append([]byte(nil), seq...), offset: offset})
}

// calculateBaseConsensus computes the column-wise consensus sequence.
// maxDepth caps how many rows contribute to any one column (0 means
// unlimited, matching the original's effectively-unlimited 10000 default);
// minSupport is the minimum vote count the plurality base must reach before
// it overrides the base sequence's own byte at that column — at
// minSupport==0 the plurality always wins (provisional, intra-round
// consensus), at minSupport>0 a weakly-supported column falls back to the
// base read (final, conservative consensus).
func (ma *multipleAlignment) calculateBaseConsensus(maxDepth, minSupport int) []byte {
	out := make([]byte, len(ma.base))
	for col := range ma.base {
		votes := map[byte]int{ma.base[col]: 1}
		depth := 1
		for _, r := range ma.rows {
			if maxDepth > 0 && depth >= maxDepth {
				break
			}
			j := col - r.offset
			if j < 0 || j >= len(r.seq) {
				continue
			}
			votes[r.seq[j]]++
			depth++
		}

		bestBase, bestCount := ma.base[col], 0
		considered := false
		for _, b := range bioseq.Bases {
			if c, ok := votes[b]; ok && c > bestCount {
				bestCount = c
				bestBase = b
			}
			if b == ma.base[col] {
				considered = true
			}
		}
		if !considered {
			// base[col] is not one of bioseq.Bases (an ambiguity code):
			// give it the lowest priority among ties, after the fixed
			// A/C/G/T order above, so the result stays deterministic.
			if c := votes[ma.base[col]]; c > bestCount {
				bestCount = c
				bestBase = ma.base[col]
			}
		}

		if bestCount >= minSupport {
			out[col] = bestBase
		} else {
			out[col] = ma.base[col]
		}
	}
	return out
}

// print writes a simple row-by-row rendering (restored diagnostic, D.7).
func (ma *multipleAlignment) print(w io.Writer) {
	fmt.Fprintf(w, "base:   %s\n", ma.base)
	for _, r := range ma.rows {
		indent := r.offset
		if indent < 0 {
			indent = 0
		}
		fmt.Fprintf(w, "row:    %*s%s\n", indent, "", r.seq)
	}
}

// printPileup writes the per-column vote tally, the second half of the
// restored diagnostic pair (print/printPileup in the original).
func (ma *multipleAlignment) printPileup(w io.Writer) {
	for col := range ma.base {
		votes := map[byte]int{ma.base[col]: 1}
		for _, r := range ma.rows {
			j := col - r.offset
			if j < 0 || j >= len(r.seq) {
				continue
			}
			votes[r.seq[j]]++
		}
		fmt.Fprintf(w, "%d:\t%c\t%v\n", col, ma.base[col], votes)
	}
}
