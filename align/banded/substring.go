// Package banded implements a banded, affine-gap global alignment between
// two byte sequences encoded over a small alphabet, producing a score and
// (optionally) an edit-operation transcript.
package banded

// complementCode maps a 2-bit nucleotide code to its complement; codes 4
// and above (ambiguity symbols, wildcards) pass through unchanged.
func complementCode(c byte) byte {
	if c < 4 {
		return 3 - c
	}
	return c
}

// Substring is a lightweight, allocation-free view over a byte slice: either
// the forward strand starting at an offset, or the reverse-complement strand
// of a subrange of the original sequence.
type Substring struct {
	forward        bool
	seq            []byte
	start, length  int
	originalLen    int
}

// NewSubstring returns a forward-strand view of seq[start:start+length].
func NewSubstring(seq []byte, start, length int) Substring {
	return Substring{forward: true, seq: seq, start: start, length: length}
}

// NewReverseComplementSubstring returns a view over the reverse-complement
// strand of the originalLen-long forward sequence seq. start and length
// count on the reverse-complement strand, so the view covers the forward
// positions [originalLen-start-length, originalLen-start), read backwards
// and complemented.
func NewReverseComplementSubstring(seq []byte, start, length, originalLen int) Substring {
	return Substring{
		forward:     false,
		seq:         seq,
		start:       start,
		length:      length,
		originalLen: originalLen,
	}
}

// At returns the base at position idx (0-indexed) of the view.
func (s Substring) At(idx int) byte {
	if s.forward {
		return s.seq[s.start+idx]
	}
	transformedEnd := s.originalLen - 1 - s.start
	return complementCode(s.seq[transformedEnd-idx])
}

// Len returns the number of bases in the view.
func (s Substring) Len() int {
	return s.length
}
