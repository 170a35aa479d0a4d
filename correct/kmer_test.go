package correct

import (
	"testing"

	"github.com/mudesheng/ecc/fmindex/fmindextest"
	"github.com/mudesheng/ecc/qualtable"
)

// buildRepeatedIndex builds a fmindextest.Index containing n copies of seq,
// so every k-mer of seq has count n.
func buildRepeatedIndex(seq []byte, n int) *fmindextest.Index {
	reads := make([][]byte, n)
	for i := range reads {
		reads[i] = append([]byte(nil), seq...)
	}
	return fmindextest.Build(reads)
}

func TestKmerCorrectionAllSolid(t *testing.T) {
	seq := []byte("ACGTACGTAC")
	idx := buildRepeatedIndex(seq, 5)
	p := Params{KmerLength: 5, NumKmerRounds: 10, Quality: qualtable.Default()}

	highQual := func(i int) int { return 40 }
	result := kmerCorrection(idx, p, seq, highQual)

	if !result.KmerQC {
		t.Fatalf("expected KmerQC pass, got fail; corrected=%s", result.CorrectedSeq)
	}
	if string(result.CorrectedSeq) != string(seq) {
		t.Fatalf("expected sequence unchanged, got %s", result.CorrectedSeq)
	}
}

func TestKmerCorrectionFixesSingleError(t *testing.T) {
	// 8 copies of the true sequence in the index; the query carries one
	// substitution near the middle which should be correctable since the
	// erroneous kmers have count 0 (never occur) and the true base's kmers
	// have count 8, comfortably over required_support('I')=2.
	truth := []byte("ACGTACGTACGTACGT")
	idx := buildRepeatedIndex(truth, 8)

	errored := append([]byte(nil), truth...)
	errPos := 8
	if errored[errPos] == 'A' {
		errored[errPos] = 'C'
	} else {
		errored[errPos] = 'A'
	}

	p := Params{KmerLength: 5, NumKmerRounds: 10, Quality: qualtable.Default()}
	highQual := func(i int) int { return 40 }

	result := kmerCorrection(idx, p, errored, highQual)
	if !result.KmerQC {
		t.Fatalf("expected correction to converge, got fail; corrected=%s", result.CorrectedSeq)
	}
	if string(result.CorrectedSeq) != string(truth) {
		t.Fatalf("expected %s, got %s", truth, result.CorrectedSeq)
	}
}

func TestKmerCorrectionShortReadFails(t *testing.T) {
	idx := buildRepeatedIndex([]byte("ACGTACGT"), 3)
	p := Params{KmerLength: 31, NumKmerRounds: 10, Quality: qualtable.Default()}
	result := kmerCorrection(idx, p, []byte("ACGT"), func(i int) int { return 40 })
	if result.KmerQC {
		t.Fatalf("expected QC fail for a read shorter than kmer length")
	}
	if string(result.CorrectedSeq) != "ACGT" {
		t.Fatalf("expected unmodified sequence on early return, got %s", result.CorrectedSeq)
	}
}

func TestKmerCorrectionGivesUpWithoutProgress(t *testing.T) {
	// No read in the index matches this sequence at all: no substitution
	// ever reaches minCount, so the loop must stop (not spin) and report a
	// QC failure, returning the ORIGINAL sequence.
	idx := buildRepeatedIndex([]byte("TTTTTTTTTT"), 4)
	p := Params{KmerLength: 5, NumKmerRounds: 10, Quality: qualtable.Default()}
	seq := []byte("AAAAAAAAAA")
	result := kmerCorrection(idx, p, seq, func(i int) int { return 40 })
	if result.KmerQC {
		t.Fatalf("expected QC fail")
	}
	if string(result.CorrectedSeq) != string(seq) {
		t.Fatalf("expected original sequence returned on failure, got %s", result.CorrectedSeq)
	}
}
