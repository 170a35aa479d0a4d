package correct

import (
	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/fmindex"
)

// kmerMatch is one partial match discovered while sweeping the read's
// k-mers through the FM-index, the Go shape of the original's bitfield
// KmerMatch struct (position:16, index:47, is_reverse:1) minus the manual
// bit-packing, which Go has no need to hand-roll.
type kmerMatch struct {
	position  int
	index     int64
	isReverse bool
}

// premapKey identifies one (BWT row, strand) pair, matching the original
// prematchMap's (index, is_reverse) key (ErrorCorrectProcess.cpp:170-180).
type premapKey struct {
	row       int64
	isReverse bool
}

// seedMatches implements C4: it sweeps every k-mer (forward and
// reverse-complement) of seq through idx, collects every BWT row in any
// interval smaller than fmindex.MaxIntervalSize, backtracks each row to its
// originating read id via LF-mapping, and returns the deduplicated set of
// (read id, first-seen k-mer position, strand) matches. selfIdx excludes the
// query read's own id from the result (a read never overlaps itself).
func seedMatches(idx fmindex.Index, ssa fmindex.SuffixArraySample, ivCache *fmindex.IntervalCache, seq []byte, kmerLength int, selfIdx int64) []kmerMatch {
	if len(seq) < kmerLength {
		return nil
	}
	numKmers := len(seq) - kmerLength + 1

	// premap tracks every (BWT row, strand) pair touched during the sweep,
	// and whether its backtrack has already completed. The same row can
	// carry both a forward-strand seed and a reverse-complement-strand
	// seed (a read containing a k-mer and its own reverse complement),
	// and each strand backtracks independently, so the row alone is not a
	// unique key.
	type premapEntry struct {
		position  int
		isReverse bool
		visited   bool
	}
	premap := make(map[premapKey]*premapEntry)

	addRow := func(row int64, position int, isReverse bool) {
		key := premapKey{row: row, isReverse: isReverse}
		if _, ok := premap[key]; ok {
			return
		}
		premap[key] = &premapEntry{position: position, isReverse: isReverse}
	}

	for i := 0; i < numKmers; i++ {
		kmer := seq[i : i+kmerLength]
		if iv, ok := ivCache.FindIntervalWithCache(kmer); ok && iv.Size() < fmindex.MaxIntervalSize {
			for j := iv.Lower; j <= iv.Upper; j++ {
				addRow(j, i, false)
			}
		}

		rc := bioseq.ReverseComplement(kmer)
		if iv, ok := ivCache.FindIntervalWithCache(rc); ok && iv.Size() < fmindex.MaxIntervalSize {
			for j := iv.Lower; j <= iv.Upper; j++ {
				addRow(j, i, true)
			}
		}
	}

	// Order keys for a deterministic backtrack sweep (map iteration order
	// is not stable in Go; the original iterates a sorted std::map).
	keys := make([]premapKey, 0, len(premap))
	for key := range premap {
		keys = append(keys, key)
	}
	sortPremapKeys(keys)

	matchSet := make(map[kmerMatch]struct{})
	for _, startKey := range keys {
		entry := premap[startKey]
		if entry.visited {
			continue
		}
		entry.visited = true

		index := startKey.row
		position := entry.position
		isReverse := entry.isReverse
		for {
			next, b := fmindex.LFStep(idx, index)
			nextKey := premapKey{row: next, isReverse: isReverse}
			if e, ok := premap[nextKey]; ok {
				if e.visited {
					break
				}
				e.visited = true
			}
			index = next
			if b == fmindex.SentinelByte {
				readID := ssa.LookupLexRank(index)
				if readID != selfIdx {
					matchSet[kmerMatch{position: position, index: readID, isReverse: isReverse}] = struct{}{}
				}
				break
			}
		}
	}

	matches := make([]kmerMatch, 0, len(matchSet))
	for m := range matchSet {
		matches = append(matches, m)
	}
	sortMatches(matches)
	return matches
}

func sortPremapKeys(s []premapKey) {
	less := func(a, b premapKey) bool {
		if a.row != b.row {
			return a.row < b.row
		}
		return !a.isReverse && b.isReverse
	}
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortMatches(m []kmerMatch) {
	less := func(a, b kmerMatch) bool {
		if a.index != b.index {
			return a.index < b.index
		}
		return !a.isReverse && b.isReverse
	}
	for i := 1; i < len(m); i++ {
		for j := i; j > 0 && less(m[j], m[j-1]); j-- {
			m[j-1], m[j] = m[j], m[j-1]
		}
	}
}
