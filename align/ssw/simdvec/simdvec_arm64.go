//go:build arm64

package simdvec

// Lanes8 and Lanes16 stand in for a NEON-width backend (16 one-byte lanes,
// 8 two-byte lanes).
const (
	Lanes8  = 16
	Lanes16 = 8
)
