package pairsearch

import (
	"testing"

	"github.com/alnkit/seqalign/align/ssw"
	"github.com/stretchr/testify/assert"
)

func TestTopKHeapKeepsOnlyBestK(t *testing.T) {
	topK := NewTopKHeap(2)
	topK.Add(ssw.Result{RawScore: 10}, 0, 0)
	topK.Add(ssw.Result{RawScore: 30}, 1, 0)
	topK.Add(ssw.Result{RawScore: 20}, 2, 0)

	sorted := topK.Sorted()
	assert.Len(t, sorted, 2)
	assert.Equal(t, uint32(30), sorted[0].RawScore)
	assert.Equal(t, uint32(20), sorted[1].RawScore)
}

func TestTopKHeapUnboundedWhenKZero(t *testing.T) {
	topK := NewTopKHeap(0)
	for i := 0; i < 5; i++ {
		topK.Add(ssw.Result{RawScore: uint32(i)}, uint32(i), 0)
	}
	assert.Len(t, topK.Sorted(), 5)
}

func TestHitGreaterTieBreaksOnLengthThenIDs(t *testing.T) {
	a := Hit{Result: ssw.Result{RawScore: 10, USubstringLength: 5, VSubstringLength: 5}, RefID: 2}
	b := Hit{Result: ssw.Result{RawScore: 10, USubstringLength: 3, VSubstringLength: 3}, RefID: 1}
	assert.True(t, a.Greater(b))
	assert.False(t, b.Greater(a))
}

func TestAddHitPreservesPolishFields(t *testing.T) {
	topK := NewTopKHeap(1)
	topK.AddHit(Hit{Result: ssw.Result{RawScore: 10}, Cigar: "4=", VerifiedScore: 8})
	sorted := topK.Sorted()
	assert.Equal(t, "4=", sorted[0].Cigar)
	assert.Equal(t, int64(8), sorted[0].VerifiedScore)
}
