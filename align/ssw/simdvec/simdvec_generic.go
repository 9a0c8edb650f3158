//go:build !amd64 && !arm64

// Package simdvec provides a portable stand-in for the lane-wise integer
// vector operators the striped Smith-Waterman sweep is built on. Each
// build-tag-gated file defines the same lane widths and the same
// operator set over plain Go slices; none of them use actual SIMD
// intrinsics or assembly, only the per-architecture lane-width constants
// that a real backend would use.
package simdvec

// Lanes8 and Lanes16 are the SSE4.1-width fallback used by every
// architecture without a dedicated file.
const (
	Lanes8  = 16
	Lanes16 = 8
)
