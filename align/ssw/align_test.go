package ssw

import (
	"testing"

	"github.com/alnkit/seqalign/align/banded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitMatrix scores a match as +2 and a mismatch as -1 over a 4-letter
// alphabet (A=0,C=1,G=2,T=3), the same convention align/banded's tests use.
func unitMatrix() banded.ScoreMatrix {
	rows := make([][]int8, 4)
	for i := range rows {
		row := make([]int8, 4)
		for j := range row {
			if i == j {
				row[j] = 2
			} else {
				row[j] = -1
			}
		}
		rows[i] = row
	}
	return banded.ScoreMatrix{Alphasize: 4, Smallest: -1, Rows: rows}
}

func encode(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case 'A':
			out[i] = 0
		case 'C':
			out[i] = 1
		case 'G':
			out[i] = 2
		case 'T':
			out[i] = 3
		}
	}
	return out
}

func TestAlignExactMatch(t *testing.T) {
	matrix := unitMatrix()
	query := encode("ACGT")
	profile := BuildProfile(matrix, query, false)
	res := NewResources(len(query))

	result, err := Align(profile, res, encode("ACGT"), 5, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), result.RawScore)
	assert.Equal(t, 0, result.UStart)
	assert.Equal(t, 4, result.USubstringLength)
	assert.Equal(t, 0, result.VStart)
	assert.Equal(t, 4, result.VSubstringLength)
	assert.True(t, result.ForwardStrand)
}

func TestAlignLocalSubstringMatch(t *testing.T) {
	matrix := unitMatrix()
	query := encode("ACGT")
	profile := BuildProfile(matrix, query, false)
	res := NewResources(16)

	// "ACGT" embedded inside unrelated flanking bases; local alignment
	// should find exactly the embedded exact match and ignore the flanks.
	result, err := Align(profile, res, encode("TTACGTTT"), 5, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), result.RawScore)
	assert.Equal(t, 0, result.UStart)
	assert.Equal(t, 4, result.USubstringLength)
	assert.Equal(t, 2, result.VStart)
	assert.Equal(t, 4, result.VSubstringLength)
}

func TestAlignComputeOnlyEnd(t *testing.T) {
	matrix := unitMatrix()
	query := encode("ACGT")
	profile := BuildProfile(matrix, query, false)
	res := NewResources(len(query))

	result, err := Align(profile, res, encode("ACGT"), 5, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), result.RawScore)
	assert.Equal(t, 0, result.UStart)
	assert.Equal(t, 0, result.VStart)
	assert.Equal(t, 4, result.VSubstringLength)
}

func TestAlignEmptyDB(t *testing.T) {
	matrix := unitMatrix()
	query := encode("ACGT")
	profile := BuildProfile(matrix, query, false)
	res := NewResources(len(query))

	result, err := Align(profile, res, nil, 5, 1, false)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestAlignReverseComplementMapsCoordinates(t *testing.T) {
	matrix := unitMatrix()
	query := encode("ACGT")
	profile := BuildProfile(matrix, query, false)
	res := NewResources(16)

	// Reverse complement of "ACGT" is "ACGT" itself (palindromic), so the
	// rc-space alignment lands at rc positions [0,4); mapped back onto the
	// original forward-strand db of the same length, that's still [0,4).
	result, err := AlignReverseComplement(profile, res, encode("ACGT"), 5, 1, false)
	require.NoError(t, err)
	assert.False(t, result.ForwardStrand)
	assert.Equal(t, uint32(8), result.RawScore)
	assert.Equal(t, 0, result.VStart)
	assert.Equal(t, 4, result.VSubstringLength)
}

func TestResultGreater(t *testing.T) {
	a := Result{RawScore: 10, USubstringLength: 5, VSubstringLength: 5}
	b := Result{RawScore: 10, USubstringLength: 3, VSubstringLength: 3}
	c := Result{RawScore: 12, USubstringLength: 1, VSubstringLength: 1}

	assert.True(t, a.Greater(b))
	assert.False(t, b.Greater(a))
	assert.True(t, c.Greater(a))
}

func TestBuildProfileEmptyQuery(t *testing.T) {
	matrix := unitMatrix()
	profile := BuildProfile(matrix, nil, false)
	assert.Equal(t, 0, profile.segLen8)
	assert.Equal(t, 0, profile.segLen16)
}
