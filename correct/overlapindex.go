package correct

import (
	"bytes"
	"io"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/overlap"
)

// extendBand is the banded-extension width used by indexOverlapCorrection,
// matching the original's hardcoded Overlapper::extendMatch(..., 20) call.
const extendBand = 20

// indexOverlapCorrection implements C7: the FM-index-seeded seed-and-extend
// overlap corrector (overlapCorrectionNew). readIdx is this read's own id,
// excluded from its own seed matches.
func indexOverlapCorrection(idx fmindex.Index, ssa fmindex.SuffixArraySample, svc overlap.Service, p Params, seq []byte, readIdx int64, w io.Writer) Result {
	currentSeq := append([]byte(nil), seq...)
	var consensus []byte

	ivCache := fmindex.NewIntervalCache(idx)

	for round := 0; round < p.NumOverlapRounds; round++ {
		matches := seedMatches(idx, ssa, ivCache, currentSeq, p.KmerLength, readIdx)

		ma := &multipleAlignment{}
		ma.addBaseSequence(currentSeq)

		for _, m := range matches {
			matchSeq := idx.ExtractString(m.index)
			if m.isReverse {
				matchSeq = bioseq.ReverseComplement(matchSeq)
			}

			anchor := currentSeq[m.position : m.position+p.KmerLength]
			pos0 := bytes.Index(currentSeq, anchor)
			pos1 := bytes.Index(matchSeq, anchor)
			if pos0 < 0 || pos1 < 0 {
				continue
			}

			ov, ok := refineOverlap(svc, currentSeq, matchSeq, anchor, pos0, pos1, extendBand)
			if !ok {
				continue
			}
			if acceptOverlap(ov, p) {
				ma.addOverlap(matchSeq, ov)
			}
		}

		if p.PrintOverlaps {
			ma.print(w)
			ma.printPileup(w)
		}

		last := round == p.NumOverlapRounds-1
		if last {
			consensus = ma.calculateBaseConsensus(10000, 3)
		} else {
			currentSeq = ma.calculateBaseConsensus(10000, 0)
		}
	}

	if len(consensus) > 0 {
		return Result{CorrectedSeq: consensus, OverlapQC: true}
	}
	return Result{CorrectedSeq: append([]byte(nil), seq...), OverlapQC: false}
}
