package correct

import (
	"testing"

	"github.com/mudesheng/ecc/fmindex"
	"github.com/mudesheng/ecc/fmindex/fmindextest"
)

func TestSeedMatchesExcludesSelfAndFindsOverlap(t *testing.T) {
	reads := [][]byte{
		[]byte("ACGTACGTAC"), // read 0: query
		[]byte("ACGTACGTAC"), // read 1: identical, must be found
		[]byte("TTTTTTTTTT"), // read 2: unrelated
	}
	idx := fmindextest.Build(reads)
	ssa := fmindextest.NewSuffixArraySample(idx)
	ivCache := fmindex.NewIntervalCache(idx)

	matches := seedMatches(idx, ssa, ivCache, reads[0], 5, 0)

	foundSelf := false
	foundOther := false
	for _, m := range matches {
		if m.index == 0 {
			foundSelf = true
		}
		if m.index == 1 {
			foundOther = true
		}
	}
	if foundSelf {
		t.Fatalf("seedMatches must exclude the query's own read id")
	}
	if !foundOther {
		t.Fatalf("seedMatches should find read 1, which shares all kmers with the query")
	}
}

func TestSeedMatchesKeepsBothStrandsAtSharedRow(t *testing.T) {
	// "ACGCGT" is its own reverse complement: every row the forward sweep
	// visits for this query is also visited by the reverse-complement
	// sweep. A premap keyed on the BWT row alone would let one strand's
	// entry overwrite the other's; keyed on (row, isReverse), both the
	// forward and reverse-complement seeds from read 1 must survive.
	reads := [][]byte{
		[]byte("ACGCGT"), // read 0: query, palindromic
		[]byte("ACGCGT"), // read 1: identical
	}
	idx := fmindextest.Build(reads)
	ssa := fmindextest.NewSuffixArraySample(idx)
	ivCache := fmindex.NewIntervalCache(idx)

	matches := seedMatches(idx, ssa, ivCache, reads[0], 5, 0)

	foundForward, foundReverse := false, false
	for _, m := range matches {
		if m.index != 1 {
			continue
		}
		if m.isReverse {
			foundReverse = true
		} else {
			foundForward = true
		}
	}
	if !foundForward {
		t.Fatalf("expected a forward-strand match against read 1, got %v", matches)
	}
	if !foundReverse {
		t.Fatalf("expected a reverse-complement-strand match against read 1 to survive alongside the forward match, got %v", matches)
	}
}

func TestSeedMatchesTooShortReadYieldsNothing(t *testing.T) {
	idx := fmindextest.Build([][]byte{[]byte("ACGT")})
	ssa := fmindextest.NewSuffixArraySample(idx)
	ivCache := fmindex.NewIntervalCache(idx)
	matches := seedMatches(idx, ssa, ivCache, []byte("ACG"), 5, 0)
	if matches != nil {
		t.Fatalf("expected nil matches for a read shorter than kmerLength, got %v", matches)
	}
}
