package correct

import (
	"testing"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/fmindex/fmindextest"
	"github.com/mudesheng/ecc/overlap/overlaptest"
	"github.com/mudesheng/ecc/qualtable"
)

func TestCorrectorKmerPath(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	reads := [][]byte{seq, append([]byte(nil), seq...)}
	idx := fmindextest.Build(reads)
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService(reads)

	p := Params{Algorithm: KMER, KmerLength: 5, NumKmerRounds: 5, Quality: qualtable.Default()}
	c := NewCorrector(idx, ssa, svc, p)

	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I' // phred 40
	}
	read := bioseq.Read{ID: "r0", Seq: seq, Qual: qual, Idx: 0}

	result := c.Correct(read)
	if !result.KmerQC {
		t.Fatalf("expected kmer QC pass")
	}
	if svc.Calls() != 0 {
		t.Fatalf("KMER algorithm must never touch the overlap service")
	}
}

func TestCorrectorHybridFallsBackToLegacyOnKmerFailure(t *testing.T) {
	// A read with no supporting kmers anywhere in the index: kmer
	// correction cannot succeed, so HYBRID must fall back to the legacy
	// overlap path (which finds no overlaps in overlaptest here, so its
	// QCCheck has no covered column to reject — the point of this test is
	// only that the overlap service gets invoked at all).
	seq := []byte("ACGTACGTACGTACGT")
	unrelated := []byte("TTTTTTTTTTTTTTTT")
	idx := fmindextest.Build([][]byte{seq, unrelated})
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService([][]byte{seq, unrelated})

	p := Params{
		Algorithm:        HYBRID,
		KmerLength:       31, // longer than the read: kmerCorrection bails immediately
		NumKmerRounds:    5,
		NumOverlapRounds: 1,
		MinOverlap:       5,
		MinIdentity:      0.9,
		Quality:          qualtable.Default(),
	}
	c := NewCorrector(idx, ssa, svc, p)

	read := bioseq.Read{ID: "r0", Seq: seq, Idx: 0}
	result := c.Correct(read)

	if result.KmerQC {
		t.Fatalf("expected kmer QC to fail for a read shorter than kmerLength")
	}
	if svc.Calls() == 0 {
		t.Fatalf("expected HYBRID fallback to invoke the overlap service")
	}
}

func TestCorrectorPrintOverlapsWritesDiagnostics(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	idx := fmindextest.Build([][]byte{seq})
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService([][]byte{seq})

	p := Params{Algorithm: KMER, KmerLength: 5, NumKmerRounds: 5, Quality: qualtable.Default(), PrintOverlaps: true}
	c := NewCorrector(idx, ssa, svc, p)
	var buf countingWriter
	c.Diag = &buf

	read := bioseq.Read{ID: "r0", Seq: seq, Qual: nil, Idx: 0}
	c.Correct(read)

	if buf.n == 0 {
		t.Fatalf("expected PrintOverlaps to write diagnostics")
	}
}

type countingWriter struct{ n int }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
