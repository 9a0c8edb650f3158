package pairsearch

import (
	"context"
	"testing"

	"github.com/alnkit/seqalign/align/banded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestRunFindsBestHitAgainstQueryBank(t *testing.T) {
	ref := newSliceMultiseq([]string{"ACGTACGT"}, []string{"ref0"})
	query := newSliceMultiseq([]string{"TTTTTTTT", "ACGTACGT", "AAAAAAAA"}, []string{"q0", "q1", "q2"})

	cfg := Config{Cut: 10, Threads: 2, MinScore: 1, TopK: 5}
	hits, err := Run(context.Background(), cfg, ref, query, unitMatrix(), 5, 1, nil, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, uint32(0), hits[0].RefID)
	assert.Equal(t, uint32(1), hits[0].QueryID)
	assert.Equal(t, uint32(16), hits[0].RawScore)
}

func TestRunSelfComparisonSkipsSelfPairs(t *testing.T) {
	m := newSliceMultiseq([]string{"ACGT", "ACGT", "TTTT"}, []string{"s0", "s1", "s2"})
	cfg := Config{Cut: 10, Threads: 1, MinScore: 0, TopK: 10}
	hits, err := Run(context.Background(), cfg, m, m, unitMatrix(), 5, 1, nil, nil, nil)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, h.RefID, h.QueryID)
	}
}

func TestRunRespectsMinScore(t *testing.T) {
	ref := newSliceMultiseq([]string{"ACGT"}, []string{"ref0"})
	query := newSliceMultiseq([]string{"TTTT"}, []string{"q0"})
	cfg := Config{Cut: 10, Threads: 1, MinScore: 100, TopK: 5}
	hits, err := Run(context.Background(), cfg, ref, query, unitMatrix(), 5, 1, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRunPolishesScoreMatchesRawScore(t *testing.T) {
	ref := newSliceMultiseq([]string{"ACGTACGT"}, []string{"ref0"})
	query := newSliceMultiseq([]string{"ACGTACGT"}, []string{"q0"})
	cfg := Config{Cut: 10, Threads: 1, MinScore: 1, TopK: 5, PolishScores: true}
	hits, err := Run(context.Background(), cfg, ref, query, unitMatrix(), 5, 1, nil, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, int64(hits[0].RawScore), hits[0].VerifiedScore)
	assert.Equal(t, "8=", hits[0].Cigar)
}
