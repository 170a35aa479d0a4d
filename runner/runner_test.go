package runner

import (
	"testing"

	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/correct"
	"github.com/mudesheng/ecc/fmindex/fmindextest"
	"github.com/mudesheng/ecc/overlap/overlaptest"
	"github.com/mudesheng/ecc/postprocess"
	"github.com/mudesheng/ecc/qualtable"
)

func TestCorrectWorkerAndDrainResults(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	reads := [][]byte{seq, append([]byte(nil), seq...)}
	idx := fmindextest.Build(reads)
	ssa := fmindextest.NewSuffixArraySample(idx)
	svc := overlaptest.NewService(reads)

	p := correct.Params{Algorithm: correct.KMER, KmerLength: 5, NumKmerRounds: 5, Quality: qualtable.Default()}

	cs := make(chan bioseq.Read, 10)
	wc := make(chan outcome, 10)

	numCPU := 2
	for j := 0; j < numCPU; j++ {
		cor := correct.NewCorrector(idx, ssa, svc, p)
		go correctWorker(cs, wc, cor)
	}

	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	cs <- bioseq.Read{ID: "r0", Seq: seq, Qual: qual, Idx: 0}
	cs <- bioseq.Read{ID: "r1", Seq: seq, Qual: qual, Idx: 1}
	close(cs)

	proc := postprocess.NewProcessor(discardBuffer{}, discardBuffer{}, false)
	processed := drainResults(wc, numCPU, proc)

	if processed != 2 {
		t.Fatalf("expected 2 processed outcomes, got %d", processed)
	}
}

// discardBuffer is a minimal io.Writer sink for tests that don't care what
// gets written, only that the pipeline runs to completion.
type discardBuffer struct{}

func (discardBuffer) Write(p []byte) (int, error) { return len(p), nil }
