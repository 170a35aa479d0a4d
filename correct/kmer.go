package correct

import (
	"github.com/cespare/xxhash"
	"github.com/mudesheng/ecc/bioseq"
	"github.com/mudesheng/ecc/fmindex"
)

// kmerCountCache memoizes per-kmer occurrence counts for the lifetime of a
// single read's k-mer correction (C2), mirroring kmerCorrection's local
// KmerCountMap. Keys are xxhash.Sum64 of the k-mer bytes rather than the
// k-mer string itself, the same hash-before-bucket idiom the cuckoofilter
// uses ahead of its own membership buckets. It is not safe for concurrent
// use or reuse across reads.
type kmerCountCache struct {
	idx     fmindex.Index
	ivCache *fmindex.IntervalCache
	counts  map[uint64]uint64
}

func newKmerCountCache(idx fmindex.Index) *kmerCountCache {
	return &kmerCountCache{
		idx:     idx,
		ivCache: fmindex.NewIntervalCache(idx),
		counts:  make(map[uint64]uint64),
	}
}

func (c *kmerCountCache) count(kmer []byte) uint64 {
	key := xxhash.Sum64(kmer)
	if n, ok := c.counts[key]; ok {
		return n
	}
	iv, _ := c.ivCache.FindIntervalWithCache(kmer)
	n := uint64(iv.Size())
	c.counts[key] = n
	return n
}

// kmerCorrection is the k-mer based corrector (C3). seq is a bioseq.Read's
// Seq; phredAt(i) returns the quality-derived phred score of base i.
func kmerCorrection(idx fmindex.Index, p Params, seq []byte, phredAt func(i int) int) Result {
	n := len(seq)
	if n < p.KmerLength {
		return Result{CorrectedSeq: append([]byte(nil), seq...), KmerQC: false}
	}

	readSeq := append([]byte(nil), seq...)
	nk := n - p.KmerLength + 1

	cache := newKmerCountCache(idx)

	// Precompute, for each kmer start i, the minimum phred score among its
	// bases — used as the quality input to the support threshold.
	minPhred := make([]int, nk)
	for i := 0; i < nk; i++ {
		end := i + p.KmerLength - 1
		m := 1<<31 - 1
		for j := i; j <= end; j++ {
			if ps := phredAt(j); ps < m {
				m = ps
			}
		}
		minPhred[i] = m
	}

	allSolid := false
	rounds := 0
	maxAttempts := p.NumKmerRounds

	for nk > 0 {
		countVector := make([]uint64, nk)
		solidVector := make([]bool, n)

		for i := 0; i < nk; i++ {
			kmer := readSeq[i : i+p.KmerLength]
			count := cache.count(kmer)
			countVector[i] = count

			threshold := p.Quality.RequiredSupport(minPhred[i])
			if count >= uint64(threshold) {
				for j := i; j < i+p.KmerLength; j++ {
					solidVector[j] = true
				}
			}
		}

		allSolid = true
		for i := 0; i < n; i++ {
			if !solidVector[i] {
				allSolid = false
				break
			}
		}

		if allSolid {
			break
		}
		priorRounds := rounds
		rounds++
		if priorRounds > maxAttempts {
			break
		}

		corrected := false
		for i := 0; i < n; i++ {
			if solidVector[i] {
				continue
			}

			phred := phredAt(i)
			threshold := p.Quality.RequiredSupport(phred)

			leftKIdx := 0
			if i+1 >= p.KmerLength {
				leftKIdx = i + 1 - p.KmerLength
			}
			minCount := countVector[leftKIdx]
			if uint64(threshold) > minCount {
				minCount = uint64(threshold)
			}
			corrected = attemptKmerCorrection(cache, i, leftKIdx, minCount, readSeq, p.KmerLength)
			if corrected {
				break
			}

			rightKIdx := i
			if n-p.KmerLength < rightKIdx {
				rightKIdx = n - p.KmerLength
			}
			minCount = countVector[rightKIdx]
			if uint64(threshold) > minCount {
				minCount = uint64(threshold)
			}
			corrected = attemptKmerCorrection(cache, i, rightKIdx, minCount, readSeq, p.KmerLength)
			if corrected {
				break
			}
		}

		if !corrected {
			break
		}
	}

	if allSolid {
		return Result{CorrectedSeq: readSeq, KmerQC: true}
	}
	return Result{CorrectedSeq: append([]byte(nil), seq...), KmerQC: false}
}

// attemptKmerCorrection tries substituting every alternative base at
// position i (which falls within the kmer starting at kIdx) and accepts the
// substitution whose count reaches minCount, provided no other substitution
// also reaches it (an ambiguous correction is refused).
func attemptKmerCorrection(cache *kmerCountCache, i, kIdx int, minCount uint64, readSeq []byte, kmerLength int) bool {
	baseIdx := i - kIdx
	original := readSeq[i]
	kmer := append([]byte(nil), readSeq[kIdx:kIdx+kmerLength]...)

	var bestCount uint64
	var bestBase byte

	for _, b := range bioseq.Bases {
		if b == original {
			continue
		}
		kmer[baseIdx] = b
		count := cache.count(kmer)
		if count >= minCount {
			if bestBase != 0 {
				// more than one substitution clears the bar: ambiguous, refuse
				return false
			}
			bestCount = count
			bestBase = b
		}
	}

	if bestCount >= minCount && bestBase != 0 {
		readSeq[i] = bestBase
		return true
	}
	return false
}
