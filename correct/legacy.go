package correct

import (
	"bytes"
	"io"

	"github.com/mudesheng/ecc/overlap"
)

// legacyOverlapCorrection implements C8: the masked multi-overlap-pile
// corrector (overlapCorrection in the original, kept alongside the
// FM-index-seeded corrector as the hybrid dispatcher's fallback path).
func legacyOverlapCorrection(svc overlap.Service, p Params, seq []byte, w io.Writer) Result {
	const pError = 0.01
	currentSeq := append([]byte(nil), seq...)

	var result Result
	var qcPass bool

	for round := 0; ; round++ {
		blocks, err := svc.OverlapRead(currentSeq, p.MinOverlap)
		if err != nil {
			return Result{CorrectedSeq: append([]byte(nil), seq...), OverlapQC: false}
		}

		sumOverlaps := 0
		for _, b := range blocks {
			sumOverlaps += int(b.Interval0.Size())
		}

		if p.DepthFilter > 0 && sumOverlaps > p.DepthFilter {
			result.CorrectedSeq = currentSeq
			result.OverlapQC = true
			result.NumPrefixOverlaps = sumOverlaps
			result.NumSuffixOverlaps = sumOverlaps
			return result
		}

		pile := overlap.NewMultiOverlapPile(currentSeq)
		for _, b := range blocks {
			pile.AddBlock(b)
		}

		if p.PrintOverlaps {
			pile.PrintMasked(w)
		}

		prefixN, suffixN := pile.CountOverlaps()
		result.NumPrefixOverlaps = prefixN
		result.NumSuffixOverlaps = suffixN

		corrected := pile.ConsensusConflict(pError, p.ConflictCutoff)

		converged := round+1 == p.NumOverlapRounds || bytes.Equal(corrected, currentSeq)
		if converged {
			pile.UpdateRootSeq(corrected)
			qcPass = pile.QCCheck()
			result.CorrectedSeq = corrected
			result.OverlapQC = qcPass
			if !qcPass {
				result.CorrectedSeq = append([]byte(nil), seq...)
			}
			return result
		}
		currentSeq = corrected
	}
}
