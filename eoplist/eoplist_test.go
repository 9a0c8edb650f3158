package eoplist

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAddCoalesces(t *testing.T) {
	l := New()
	l.MatchAdd(5)
	l.MatchAdd(7)
	assert.Equal(t, "12=", l.CigarString(true))
	m, mm, d, ins, go_ := l.Counts()
	assert.Equal(t, 12, m)
	assert.Zero(t, mm)
	assert.Zero(t, d)
	assert.Zero(t, ins)
	assert.Zero(t, go_)
}

func TestMatchAddSplitsLongRuns(t *testing.T) {
	l := New()
	l.MatchAdd(500)
	assert.Equal(t, 2, l.Size())
	assert.Equal(t, "500=", l.CigarString(true))
	m, _, _, _, _ := l.Counts()
	assert.Equal(t, 500, m)
}

func TestMixedCigarRoundTrip(t *testing.T) {
	l := New()
	l.MatchAdd(12)
	l.MismatchAdd()
	l.MatchAdd(3)
	l.DeletionAdd()
	l.DeletionAdd()
	l.MatchAdd(4)
	l.InsertionAdd()
	l.MatchAdd(2)

	assert.Equal(t, "12=1X3=2D4=1I2=", l.CigarString(true))
	assert.Equal(t, "16M2D4M1I2M", l.CigarString(false))

	m, mm, d, ins, gapOpens := l.Counts()
	assert.Equal(t, 21, m)
	assert.Equal(t, 1, mm)
	assert.Equal(t, 2, d)
	assert.Equal(t, 1, ins)
	assert.Equal(t, 2, gapOpens)
}

func TestGapOpenCountsCoalescedRuns(t *testing.T) {
	l := New()
	l.DeletionAdd()
	l.DeletionAdd()
	l.DeletionAdd()
	l.MatchAdd(1)
	l.InsertionAdd()
	_, _, _, _, gapOpens := l.Counts()
	assert.Equal(t, 2, gapOpens)
}

func TestReverseEnd(t *testing.T) {
	l := New()
	l.DeletionAdd()
	l.MismatchAdd()
	l.MatchAdd(3)
	before := append([]byte(nil), l.eops...)
	l.ReverseEnd(0)
	for i := range before {
		assert.Equal(t, before[len(before)-1-i], l.eops[i])
	}
}

func TestParseCigarRoundTrip(t *testing.T) {
	cigar := "12=1X3=2D4=1I2="
	l, err := ParseCigar(true, cigar)
	require.NoError(t, err)
	assert.Equal(t, cigar, l.CigarString(true))
}

func TestParseCigarMalformed(t *testing.T) {
	_, err := ParseCigar(true, "12=5Q")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrMalformedCigar))
}

func TestAlignedLenAndErrorPercentage(t *testing.T) {
	l := New()
	l.MatchAdd(18)
	l.MismatchAdd()
	l.DeletionAdd()
	assert.Equal(t, 20, l.AlignedLenU())
	assert.Equal(t, 19, l.AlignedLenV())
	assert.Equal(t, 39, l.AlignedLen())
	assert.InDelta(t, 200.0*2/39, l.ErrorPercentage(), 1e-9)
}

func TestEvaluateScore(t *testing.T) {
	u := []byte{0, 0, 1, 2}
	v := []byte{0, 0, 2, 2}
	matrix := [][]int8{
		{2, -1, -1, -1},
		{-1, 2, -1, -1},
		{-1, -1, 2, -1},
		{-1, -1, -1, 2},
	}
	l := New()
	l.MatchAdd(2)
	l.MismatchAdd()
	l.MatchAdd(1)
	got := l.EvaluateScore(u, v, 5, 1, matrix)
	assert.Equal(t, int64(2+2-1+2), got)
}

func TestCutOffUnpolishedTail(t *testing.T) {
	l := New()
	l.MatchAdd(10)
	l.MismatchAdd()
	l.DeletionAdd()
	removed := l.CutOffUnpolishedTail()
	assert.True(t, removed)
	assert.Equal(t, "10=", l.CigarString(true))
	_, mm, d, _, _ := l.Counts()
	assert.Zero(t, mm)
	assert.Zero(t, d)
}

func TestCutOffUnpolishedTailNoop(t *testing.T) {
	l := New()
	l.MatchAdd(10)
	removed := l.CutOffUnpolishedTail()
	assert.False(t, removed)
	assert.Equal(t, "10=", l.CigarString(true))
}

func TestEqual(t *testing.T) {
	a, err := ParseCigar(true, "5=1X5=")
	require.NoError(t, err)
	b, err := ParseCigar(true, "5=1X5=")
	require.NoError(t, err)
	c, err := ParseCigar(true, "5=1X4=")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestReset(t *testing.T) {
	l := New()
	l.MatchAdd(3)
	l.MismatchAdd()
	l.Reset()
	assert.Zero(t, l.Size())
	assert.Equal(t, "", l.CigarString(true))
}

