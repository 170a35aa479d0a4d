package correct

import (
	"testing"

	"github.com/mudesheng/ecc/overlap"
)

func TestMultipleAlignmentConsensusMajorityWins(t *testing.T) {
	ma := &multipleAlignment{}
	ma.addBaseSequence([]byte("AAAAA"))
	// Two rows agree on a 'C' at column 2, outvoting the base's 'A'.
	ma.addOverlap([]byte("CC"), overlap.Overlap{Start0: 1, End0: 3, Start1: 0, End1: 2})
	ma.addOverlap([]byte("CC"), overlap.Overlap{Start0: 1, End0: 3, Start1: 0, End1: 2})

	got := ma.calculateBaseConsensus(10000, 0)
	want := "ACCAA"
	if string(got) != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestMultipleAlignmentConsensusRequiresMinSupport(t *testing.T) {
	ma := &multipleAlignment{}
	ma.addBaseSequence([]byte("AAAAA"))
	// A single dissenting vote should not override the base when
	// minSupport is high.
	ma.addOverlap([]byte("CC"), overlap.Overlap{Start0: 1, End0: 3, Start1: 0, End1: 2})

	got := ma.calculateBaseConsensus(10000, 3)
	if string(got) != "AAAAA" {
		t.Fatalf("expected base sequence preserved under a high minSupport, got %s", got)
	}
}

func TestMultipleAlignmentConsensusTieBreaksDeterministically(t *testing.T) {
	ma := &multipleAlignment{}
	ma.addBaseSequence([]byte("TAAAA"))
	// Column 1: base votes 'A' once, one row votes 'C', one row votes 'G'.
	// All three tie at one vote apiece; the result must always pick the
	// same base across repeated runs (A, ahead of C and G in bioseq.Bases).
	ma.addOverlap([]byte("C"), overlap.Overlap{Start0: 1, End0: 2, Start1: 0, End1: 1})
	ma.addOverlap([]byte("G"), overlap.Overlap{Start0: 1, End0: 2, Start1: 0, End1: 1})

	for i := 0; i < 20; i++ {
		got := ma.calculateBaseConsensus(10000, 0)
		if string(got) != "TAAAA" {
			t.Fatalf("tied column must resolve deterministically to the base's own vote, got %s on iteration %d", got, i)
		}
	}
}

func TestMultipleAlignmentConsensusMaxDepthCaps(t *testing.T) {
	ma := &multipleAlignment{}
	ma.addBaseSequence([]byte("AAA"))
	for i := 0; i < 5; i++ {
		ma.addOverlap([]byte("C"), overlap.Overlap{Start0: 1, End0: 2, Start1: 0, End1: 1})
	}
	// maxDepth=1 means only the base sequence's own vote is counted; the
	// base's 'A' should win column 1 even though 5 rows vote 'C'.
	got := ma.calculateBaseConsensus(1, 0)
	if string(got) != "AAA" {
		t.Fatalf("expected maxDepth to cap contributing rows, got %s", got)
	}
}
