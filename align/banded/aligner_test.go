package banded

import (
	"testing"

	"github.com/alnkit/seqalign/eoplist"
	"github.com/stretchr/testify/assert"
)

func unitMatrix() ScoreMatrix {
	rows := make([][]int8, 4)
	for i := range rows {
		rows[i] = make([]int8, 4)
		for j := range rows[i] {
			if i == j {
				rows[i][j] = 2
			} else {
				rows[i][j] = -1
			}
		}
	}
	return ScoreMatrix{Alphasize: 4, Smallest: -1, Rows: rows}
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

func TestNextBandWidth(t *testing.T) {
	assert.Equal(t, 2, nextBandWidth(1))
	assert.Equal(t, 6, nextBandWidth(4))
	assert.Equal(t, 28, nextBandWidth(19))
	assert.Equal(t, 25, nextBandWidth(20))
}

func TestAlignExactMatch(t *testing.T) {
	matrix := unitMatrix()
	u := NewSubstring(encode("ACGT"), 0, 4)
	v := NewSubstring(encode("ACGT"), 0, 4)
	for _, optMemory := range []bool{true, false} {
		a := NewAligner(optMemory, true)
		score, err := a.Align(matrix, 5, 1, u, v, false, 0)
		assert.NoError(t, err)
		assert.EqualValues(t, 8, score)
		eo := eoplist.New()
		a.Traceback(eo, u, v)
		assert.Equal(t, "4=", eo.CigarString(true))
	}
}

func TestAlignMismatch(t *testing.T) {
	matrix := unitMatrix()
	u := NewSubstring(encode("ACGT"), 0, 4)
	v := NewSubstring(encode("ACCT"), 0, 4)
	for _, optMemory := range []bool{true, false} {
		a := NewAligner(optMemory, true)
		score, err := a.Align(matrix, 5, 1, u, v, false, 0)
		assert.NoError(t, err)
		assert.EqualValues(t, 5, score)
		eo := eoplist.New()
		a.Traceback(eo, u, v)
		assert.Equal(t, "2=1X1=", eo.CigarString(true))
	}
}

func TestAlignDeletion(t *testing.T) {
	matrix := unitMatrix()
	u := NewSubstring(encode("ACGT"), 0, 4)
	v := NewSubstring(encode("ACT"), 0, 3)
	for _, optMemory := range []bool{true, false} {
		a := NewAligner(optMemory, true)
		score, err := a.Align(matrix, 5, 1, u, v, false, 0)
		assert.NoError(t, err)
		assert.EqualValues(t, 0, score)
		eo := eoplist.New()
		a.Traceback(eo, u, v)
		assert.Equal(t, "2=1D1=", eo.CigarString(true))
	}
}

func TestAlignInsertion(t *testing.T) {
	matrix := unitMatrix()
	u := NewSubstring(encode("ACT"), 0, 3)
	v := NewSubstring(encode("ACGT"), 0, 4)
	for _, optMemory := range []bool{true, false} {
		a := NewAligner(optMemory, true)
		score, err := a.Align(matrix, 5, 1, u, v, false, 0)
		assert.NoError(t, err)
		assert.EqualValues(t, 0, score)
		eo := eoplist.New()
		a.Traceback(eo, u, v)
		assert.Equal(t, "2=1I1=", eo.CigarString(true))
	}
}

func TestAlignScoreMatchesEvaluateScore(t *testing.T) {
	matrix := unitMatrix()
	uSeq, vSeq := encode("ACGTACGTTTAC"), encode("ACCTACCGTTAG")
	u := NewSubstring(uSeq, 0, len(uSeq))
	v := NewSubstring(vSeq, 0, len(vSeq))
	a := NewAligner(true, true)
	score, err := a.Align(matrix, 5, 1, u, v, false, 0)
	assert.NoError(t, err)
	eo := eoplist.New()
	a.Traceback(eo, u, v)
	assert.Equal(t, score, eo.EvaluateScore(uSeq, vSeq, 5, 1, matrix.Rows))
}

func TestAlignBandGrowthStabilizesToGlobalOptimum(t *testing.T) {
	matrix := unitMatrix()
	// u is "GG" followed by four copies of "ACGT"; v is the same four
	// copies followed by "TT". The optimal alignment deletes the leading
	// "GG" and inserts the trailing "TT", a diagonal shift of 2 that a band
	// width of 1 (the width lendiff=0 starts at) cannot represent —
	// reaching it requires the band to grow.
	uSeq := encode("GGACGTACGTACGTACGT")
	vSeq := encode("ACGTACGTACGTACGTTT")
	u := NewSubstring(uSeq, 0, len(uSeq))
	v := NewSubstring(vSeq, 0, len(vSeq))

	oracle := NewAligner(true, false)
	// An expectedScore no real alignment can reach forces growth all the
	// way to fullBand — a path the noScoreRun short-circuit never
	// touches — giving the true global optimum as an independent oracle.
	optimal, err := oracle.Align(matrix, 1, 1, u, v, false, 1<<30)
	assert.NoError(t, err)

	narrow := NewAligner(true, false)
	narrowScore, err := narrow.Align(matrix, 1, 1, u, v, false, 0)
	assert.NoError(t, err)
	assert.Less(t, narrowScore, optimal, "narrowest band should not already reach the optimum in this case")

	grown := NewAligner(true, false)
	grownScore, err := grown.Align(matrix, 1, 1, u, v, true, 0)
	assert.NoError(t, err)
	assert.Equal(t, optimal, grownScore)
}

func TestAlignWithoutEoplist(t *testing.T) {
	matrix := unitMatrix()
	u := NewSubstring(encode("ACGT"), 0, 4)
	v := NewSubstring(encode("ACGT"), 0, 4)
	a := NewAligner(true, false)
	score, err := a.Align(matrix, 5, 1, u, v, false, 0)
	assert.NoError(t, err)
	assert.EqualValues(t, 8, score)
}

func TestReverseComplementSubstring(t *testing.T) {
	seq := encode("ACGT")
	s := NewReverseComplementSubstring(seq, 0, 4, 4)
	assert.Equal(t, byte(0), s.At(0))
	assert.Equal(t, byte(1), s.At(1))
	assert.Equal(t, byte(2), s.At(2))
	assert.Equal(t, byte(3), s.At(3))
}

func TestBandValidate(t *testing.T) {
	b := Band{Left: -1, Right: 1}
	assert.NoError(t, b.Validate(4, 4))
	bad := Band{Left: 1, Right: 1}
	assert.Error(t, bad.Validate(4, 4))
}
