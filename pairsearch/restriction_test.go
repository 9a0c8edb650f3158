package pairsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyRestrictionAllowsEverything(t *testing.T) {
	var r *PairRestriction
	assert.True(t, r.Allowed(0, 1))
}

func TestLoadPairRestrictionRestrictsToListedPairs(t *testing.T) {
	headerIndex := map[string]uint32{"ref1": 0, "ref2": 1, "query1": 0, "query2": 1}
	r, err := LoadPairRestriction(strings.NewReader("ref1 query2\n# comment\nref2 query1\n"), headerIndex)
	require.NoError(t, err)

	assert.True(t, r.Allowed(0, 1))
	assert.True(t, r.Allowed(1, 0))
	assert.False(t, r.Allowed(0, 0))
}

func TestLoadPairRestrictionRejectsUnknownHeader(t *testing.T) {
	headerIndex := map[string]uint32{"ref1": 0}
	_, err := LoadPairRestriction(strings.NewReader("ref1 nope\n"), headerIndex)
	assert.Error(t, err)
}

func TestLoadPairRestrictionRejectsMalformedLine(t *testing.T) {
	headerIndex := map[string]uint32{"ref1": 0}
	_, err := LoadPairRestriction(strings.NewReader("ref1 query1 extra\n"), headerIndex)
	assert.Error(t, err)
}
