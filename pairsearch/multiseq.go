// Package pairsearch implements the all-against-all driver: it tiles a
// ref x query comparison matrix, fans each tile out across worker
// goroutines running striped SW (with optional banded-DP polishing), and
// collects hits either to per-thread files or a bounded best-K heap.
//
// Grounded on original_source/src/utilities/{all_vs_all2,matrix_partition}.hpp,
// src/utilities/fs_prio_store.hpp, src/sequences/stored_match.hpp, and the
// teacher's traverse.Each-based shard fan-out in pileup/snp/pileup.go and
// encoding/converter/convert.go.
package pairsearch

// Multiseq is the read-only sequence-collection collaborator the driver
// scans. The package never constructs one; callers (tests, the CLI) supply
// their own implementation.
type Multiseq interface {
	SequenceCount() int
	SequenceLength(i int) int
	SequencePtr(i int) []byte
	MaxSequenceLength() int
	ShortHeader(i int) string
}
