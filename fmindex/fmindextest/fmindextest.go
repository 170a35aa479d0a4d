// Package fmindextest is a small, brute-force in-memory FM-index and
// sampled suffix array used only by this module's own tests. The real
// FM-index and its sampled suffix array are external collaborators (spec.md
// §1, out of scope); this package plays the same role vtphan-fmi plays for
// its own consumers — a queryable, buildable FM-index — just scoped to
// test fixtures rather than a production index.
package fmindextest

import (
	"sort"

	"github.com/mudesheng/ecc/fmindex"
)

// terminator bytes are assigned per read, all distinct from each other and
// from the DNA alphabet so suffix sorting treats each read boundary
// uniquely; they are never surfaced through the Index interface, which
// reports fmindex.SentinelByte for any of them.
const firstTerminator = 1

type rowInfo struct {
	bwt      byte // actual base, or 0 if this row is a read-boundary (sentinel) row
	readID   int64
	isBorder bool
}

// Index is a brute-force FM-index over a fixed collection of reads,
// suitable for small test inputs (not production-scale genomes).
type Index struct {
	reads [][]byte
	rows  []rowInfo
	// cFirst[b] is C(b): count of symbols lexicographically smaller than b.
	cFirst map[byte]int64
	// occPrefix[b][i] = count of b in rows[0:i].
	occPrefix map[byte][]int64
}

// Build constructs an Index over reads; NewSuffixArraySample builds the
// matching SuffixArraySample from it. Read order determines read id: the
// position in the slice is the id.
func Build(reads [][]byte) *Index {
	type suffix struct {
		entry  int
		offset int
	}
	var suffixes []suffix
	for e, r := range reads {
		for off := 0; off <= len(r); off++ {
			suffixes = append(suffixes, suffix{e, off})
		}
	}

	key := func(s suffix) []byte {
		r := reads[s.entry]
		tail := append(append([]byte{}, r[s.offset:]...), byte(firstTerminator+s.entry))
		return tail
	}

	sort.Slice(suffixes, func(i, j int) bool {
		a, b := key(suffixes[i]), key(suffixes[j])
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})

	rows := make([]rowInfo, len(suffixes))
	for i, s := range suffixes {
		if s.offset == 0 {
			rows[i] = rowInfo{isBorder: true, readID: int64(s.entry)}
		} else {
			rows[i] = rowInfo{bwt: reads[s.entry][s.offset-1]}
		}
	}

	idx := &Index{reads: reads, rows: rows}
	idx.buildRank()
	return idx
}

var bases = []byte{'A', 'C', 'G', 'T'}

// symbols are every byte Occ/occPrefix must track: the DNA alphabet plus
// the sentinel that terminates each read's row in the BWT, since LFStep
// (fmindex.go) calls Occ(BWT[index], ...) and BWT[index] is the sentinel
// for every border row.
var symbols = append(append([]byte{}, bases...), fmindex.SentinelByte)

func (idx *Index) buildRank() {
	n := int64(len(idx.reads))
	counts := map[byte]int64{}
	for _, row := range idx.rows {
		if row.isBorder {
			counts[fmindex.SentinelByte]++
		} else {
			counts[row.bwt]++
		}
	}
	idx.cFirst = map[byte]int64{fmindex.SentinelByte: 0}
	running := n
	for _, b := range bases {
		idx.cFirst[b] = running
		running += counts[b]
	}

	idx.occPrefix = map[byte][]int64{}
	for _, b := range symbols {
		idx.occPrefix[b] = make([]int64, len(idx.rows)+1)
	}
	for i, row := range idx.rows {
		for _, b := range symbols {
			idx.occPrefix[b][i+1] = idx.occPrefix[b][i]
		}
		if row.isBorder {
			idx.occPrefix[fmindex.SentinelByte][i+1]++
		} else {
			idx.occPrefix[row.bwt][i+1]++
		}
	}
}

// C implements fmindex.Index.
func (idx *Index) C(b byte) int64 { return idx.cFirst[b] }

// Occ implements fmindex.Index.
func (idx *Index) Occ(b byte, i int64) int64 {
	if i < 0 {
		return 0
	}
	if i+1 >= int64(len(idx.occPrefix[b])) {
		i = int64(len(idx.occPrefix[b])) - 2
	}
	return idx.occPrefix[b][i+1]
}

// BWTChar implements fmindex.Index.
func (idx *Index) BWTChar(i int64) byte {
	row := idx.rows[i]
	if row.isBorder {
		return fmindex.SentinelByte
	}
	return row.bwt
}

// FindInterval implements fmindex.Index via standard backward search.
func (idx *Index) FindInterval(kmer []byte) (fmindex.Interval, bool) {
	if len(kmer) == 0 {
		return fmindex.Interval{}, false
	}
	lower, upper := int64(0), int64(len(idx.rows))-1
	for i := len(kmer) - 1; i >= 0; i-- {
		b := kmer[i]
		lower = idx.C(b) + idx.Occ(b, lower-1)
		upper = idx.C(b) + idx.Occ(b, upper) - 1
		if lower > upper {
			return fmindex.Interval{}, false
		}
	}
	return fmindex.Interval{Lower: lower, Upper: upper}, true
}

// Count implements fmindex.Index.
func (idx *Index) Count(kmer []byte) uint64 {
	iv, ok := idx.FindInterval(kmer)
	if !ok {
		return 0
	}
	return uint64(iv.Size())
}

// ExtractString returns the full sequence of the resolved read id (not a
// BWT row — by the time a seed reaches this call it has already been
// resolved through LookupLexRank, matching the original's extractString
// call site which passes the resolved string ID, not a raw BWT index).
func (idx *Index) ExtractString(readID int64) []byte {
	out := make([]byte, len(idx.reads[readID]))
	copy(out, idx.reads[readID])
	return out
}

// SuffixArraySample implements fmindex.SuffixArraySample over the border
// rows Index already tracks: a read's lexicographic rank is the position of
// its border row among all border rows, which is the row LFStep returns
// when it steps over that read's sentinel.
type SuffixArraySample struct {
	idx *Index
}

// NewSuffixArraySample builds the sampled suffix array paired with idx.
func NewSuffixArraySample(idx *Index) *SuffixArraySample {
	return &SuffixArraySample{idx: idx}
}

// LookupLexRank implements fmindex.SuffixArraySample: it returns the read id
// of the lexRank-th border row in BWT row order.
func (s *SuffixArraySample) LookupLexRank(lexRank int64) int64 {
	var rank int64
	for _, row := range s.idx.rows {
		if !row.isBorder {
			continue
		}
		if rank == lexRank {
			return row.readID
		}
		rank++
	}
	panic("fmindextest: lexicographic rank out of range")
}
