package correct

import (
	"testing"

	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/fmindex/fmindextest"
	"github.com/mudesheng/ecc/overlap/overlaptest"
)

func TestIndexOverlapCorrectionFixesSubstitution(t *testing.T) {
	truth := []byte("AAAAATCGATCGAAAAA")
	errored := append([]byte(nil), truth...)
	errored[8] = 'G' // truth[8] == 'A'

	reads := [][]byte{
		errored,
		append([]byte(nil), truth...),
		append([]byte(nil), truth...),
		append([]byte(nil), truth...),
	}

	idx := fmindextest.Build(reads)
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService(reads)

	p := Params{
		KmerLength:       5,
		NumOverlapRounds: 1,
		MinOverlap:       10,
		MinIdentity:      0.9,
	}

	result := indexOverlapCorrection(idx, ssa, svc, p, errored, 0, nopWriter{})
	if !result.OverlapQC {
		t.Fatalf("expected overlap QC pass")
	}
	if string(result.CorrectedSeq) != string(truth) {
		t.Fatalf("expected corrected sequence %s, got %s", truth, result.CorrectedSeq)
	}
}

func TestIndexOverlapCorrectionNoRoundsReturnsOriginal(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTA")
	idx := fmindextest.Build([][]byte{seq})
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService([][]byte{seq})

	p := Params{KmerLength: 5, NumOverlapRounds: 0, MinOverlap: 5, MinIdentity: 0.9}
	result := indexOverlapCorrection(idx, ssa, svc, p, seq, 0, nopWriter{})
	if result.OverlapQC {
		t.Fatalf("expected QC fail when zero rounds are configured")
	}
	if string(result.CorrectedSeq) != string(seq) {
		t.Fatalf("expected unmodified sequence, got %s", result.CorrectedSeq)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

var _ fmindex.Index = (*fmindextest.Index)(nil)
