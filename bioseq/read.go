// Package bioseq holds the read data model shared by the correction
// packages: a DNA sequence, its optional quality string, and the small
// amount of byte-level DNA arithmetic (reverse complement, phred decode,
// diff rendering) every corrector needs.
package bioseq

import "strings"

// Read is one sequence drawn from the source collection. Seq and Qual are
// owned by the caller; correctors never mutate them in place, they copy
// into a working buffer first.
type Read struct {
	ID   string
	Seq  []byte
	Qual []byte // phred+33 ASCII, one byte per base of Seq; nil if unknown
	Idx  int64  // position of this read in the source collection
}

// QualOffset is the phred+33 ASCII offset used throughout this module,
// matching the teacher's "encourage use phred+33" convention.
const QualOffset = 33

// PhredScore returns the phred quality of base i, or 0 if the read carries
// no quality string.
func (r Read) PhredScore(i int) int {
	if len(r.Qual) == 0 {
		return 0
	}
	return int(r.Qual[i]) - QualOffset
}

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	complement['A'], complement['T'] = 'T', 'A'
	complement['C'], complement['G'] = 'G', 'C'
	complement['a'], complement['t'] = 't', 'a'
	complement['c'], complement['g'] = 'g', 'c'
	complement['N'] = 'N'
	complement['n'] = 'n'
}

// ReverseComplement returns a new slice; seq is left untouched.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i, b := range seq {
		out[n-1-i] = complement[b]
	}
	return out
}

// Bases is the alphabet used by the k-mer corrector's substitution search,
// in the same order as the original ALPHABET table.
var Bases = [4]byte{'A', 'C', 'G', 'T'}

// DiffString renders a and b aligned base-by-base (same length expected),
// marking mismatches with '*'. This is the getDiffString debug helper
// restored from the original implementation's printOverlaps path.
func DiffString(a, b []byte) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte('*')
		}
	}
	return sb.String()
}
