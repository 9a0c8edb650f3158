package pairsearch

import (
	"container/heap"
	"sort"

	"github.com/alnkit/seqalign/align/ssw"
)

// Hit pairs one ssw.Result with the reference/query sequence it came from,
// the unit stored and ranked in best-K mode — analogous to
// GttlStoredMatch, which pairs a weight with the match coordinates it
// belongs to, without needing to additionally store sequence identity
// since a GttlStoredMatch lives inside a single ref/query's own store.
type Hit struct {
	ssw.Result
	RefID, QueryID uint32

	// Cigar and VerifiedScore are only populated when the driver polishes
	// a hit through banded.Aligner; zero values mean "not polished".
	Cigar         string
	VerifiedScore int64
}

// Greater orders Hits the same way ssw.Result does, falling back to
// RefID/QueryID as a final, fully deterministic tie-break (so Sorted's
// output order never depends on goroutine scheduling).
func (h Hit) Greater(other Hit) bool {
	if h.Result.RawScore != other.Result.RawScore {
		return h.Result.Greater(other.Result)
	}
	aLen := h.USubstringLength + h.VSubstringLength
	bLen := other.USubstringLength + other.VSubstringLength
	if aLen != bLen {
		return aLen > bLen
	}
	if h.RefID != other.RefID {
		return h.RefID < other.RefID
	}
	return h.QueryID < other.QueryID
}

// topKHeapData is a min-heap (worst kept hit at the root) so Add can
// evict the current worst in O(log k) once the store is at capacity —
// the bounded-priority-queue structure fs_prio_store.hpp implements by
// hand over a fixed array; container/heap gives the same behavior without
// a third-party dependency, and no suitable bounded-priority-queue
// library was found anywhere in the retrieval pack (see DESIGN.md).
type topKHeapData []Hit

func (h topKHeapData) Len() int            { return len(h) }
func (h topKHeapData) Less(i, j int) bool  { return h[j].Greater(h[i]) }
func (h topKHeapData) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *topKHeapData) Push(x interface{}) { *h = append(*h, x.(Hit)) }
func (h *topKHeapData) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopKHeap keeps the K best-scoring Hits seen so far, evicting the
// current worst whenever a better one arrives once full.
type TopKHeap struct {
	k    int
	data topKHeapData
}

// NewTopKHeap creates a store bounded to k hits. k <= 0 means unbounded.
func NewTopKHeap(k int) *TopKHeap {
	return &TopKHeap{k: k}
}

// Add offers one alignment result for the given ref/query pair.
func (t *TopKHeap) Add(r ssw.Result, refID, queryID uint32) {
	t.AddHit(Hit{Result: r, RefID: refID, QueryID: queryID})
}

// AddHit offers a fully-formed Hit (preserving any polish-step fields
// such as Cigar/VerifiedScore that Add alone can't carry).
func (t *TopKHeap) AddHit(hit Hit) {
	if t.k <= 0 || len(t.data) < t.k {
		heap.Push(&t.data, hit)
		return
	}
	if len(t.data) > 0 && hit.Greater(t.data[0]) {
		heap.Pop(&t.data)
		heap.Push(&t.data, hit)
	}
}

// Sorted returns the stored hits best-first.
func (t *TopKHeap) Sorted() []Hit {
	out := append([]Hit(nil), t.data...)
	sort.Slice(out, func(i, j int) bool { return out[i].Greater(out[j]) })
	return out
}
