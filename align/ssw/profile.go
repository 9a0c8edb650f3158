// Package ssw implements striped local (Smith-Waterman) alignment: a
// striped query profile, a forward sweep that finds the best-scoring
// local alignment end point, and a reverse sweep that recovers its start
// point. Grounded on original_source/src/alignment/ssw.hpp, present in
// the retrieval pack, for the profile/resources/result shapes and the
// uint8-then-uint16 overflow dispatch (ssw_align); the lower-level SIMD
// kernels it includes (sw_simd_uint8.hpp/sw_simd_uint16.hpp) are not in
// the pack, so the per-cell striped recurrence is built directly from
// the Farrar/SSW algorithm spec.md §4.3 describes.
package ssw

import (
	"github.com/alnkit/seqalign/align/banded"
	"github.com/alnkit/seqalign/align/ssw/simdvec"
)

// Profile is the striped query profile built once per database sequence
// comparison and shared across however many forward/reverse sweeps touch
// it. It holds both a biased uint8 layout (for the fast 8-bit sweep that
// Align tries first) and an unbiased int16 layout (for the 16-bit sweep
// Align reruns when the 8-bit one overflows).
type Profile struct {
	matrix  banded.ScoreMatrix
	query   []byte
	reverse bool
	bias    int16

	segLen8  int
	profile8 []uint8

	segLen16  int
	profile16 []int16
}

// BuildProfile stripes matrix over query (or its reversal, when reverse is
// true) at both the 8-bit and 16-bit lane widths.
func BuildProfile(matrix banded.ScoreMatrix, query []byte, reverse bool) *Profile {
	q := query
	if reverse {
		q = reverseBytes(query)
	}
	n := len(q)
	bias := int16(-matrix.Smallest)

	lanes8 := simdvec.Lanes8
	segLen8 := ceilDiv(n, lanes8)
	profile8 := make([]uint8, matrix.Alphasize*segLen8*lanes8)
	for c := 0; c < matrix.Alphasize; c++ {
		base := c * segLen8 * lanes8
		row := matrix.Rows[c]
		for i := 0; i < segLen8; i++ {
			for k := 0; k < lanes8; k++ {
				pos := k*segLen8 + i
				if pos < n {
					profile8[base+i*lanes8+k] = uint8(int16(row[q[pos]]) + bias)
				}
			}
		}
	}

	lanes16 := simdvec.Lanes16
	segLen16 := ceilDiv(n, lanes16)
	profile16 := make([]int16, matrix.Alphasize*segLen16*lanes16)
	for c := 0; c < matrix.Alphasize; c++ {
		base := c * segLen16 * lanes16
		row := matrix.Rows[c]
		for i := 0; i < segLen16; i++ {
			for k := 0; k < lanes16; k++ {
				pos := k*segLen16 + i
				if pos < n {
					profile16[base+i*lanes16+k] = int16(row[q[pos]])
				}
			}
		}
	}

	return &Profile{
		matrix:    matrix,
		query:     q,
		reverse:   reverse,
		bias:      bias,
		segLen8:   segLen8,
		profile8:  profile8,
		segLen16:  segLen16,
		profile16: profile16,
	}
}

func (p *Profile) col8(c byte) []uint8 {
	lanes := simdvec.Lanes8
	base := int(c) * p.segLen8 * lanes
	return p.profile8[base : base+p.segLen8*lanes]
}

func (p *Profile) col16(c byte) []int16 {
	lanes := simdvec.Lanes16
	base := int(c) * p.segLen16 * lanes
	return p.profile16[base : base+p.segLen16*lanes]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func complementCode(c byte) byte {
	if c < 4 {
		return 3 - c
	}
	return c
}
