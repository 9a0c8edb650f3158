package scorematrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnitNuc(t *testing.T) {
	m, err := Lookup("unit", true)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Alphasize)
	assert.Equal(t, int8(-1), m.Smallest)
	assert.Equal(t, int8(2), m.Rows[0][0])
	assert.Equal(t, int8(-1), m.Rows[0][1])
}

func TestLookupUnit22HasWiderMismatchPenalty(t *testing.T) {
	m, err := Lookup("unit22", true)
	require.NoError(t, err)
	assert.Equal(t, int8(-2), m.Smallest)
	assert.Equal(t, int8(-2), m.Rows[0][1])
}

func TestLookupBlosum62(t *testing.T) {
	m, err := Lookup("blosum62", false)
	require.NoError(t, err)
	assert.Equal(t, 24, m.Alphasize)
	assert.Equal(t, int8(4), m.Rows[0][0])
	assert.Equal(t, int8(11), m.Rows[17][17])
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nonsense", true)
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := Lookup("unit", true)
	require.NoError(t, err)
	codes, err := m.Encode([]byte("ACGTN"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 4}, codes)
}

func TestEncodeRejectsUnknownChar(t *testing.T) {
	m, err := Lookup("unit", true)
	require.NoError(t, err)
	_, err = m.Encode([]byte("ACGTZ"))
	assert.Error(t, err)
}

func TestBandedConversionPreservesShape(t *testing.T) {
	m, err := Lookup("unit", true)
	require.NoError(t, err)
	b := m.Banded()
	assert.Equal(t, m.Alphasize, b.Alphasize)
	assert.Equal(t, m.Smallest, b.Smallest)
	assert.Equal(t, m.Rows[2][3], b.Rows[2][3])
}
