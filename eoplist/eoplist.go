// Package eoplist implements a run-length encoded transcript of edit
// operations between two sequences: matches, mismatches, insertions and
// deletions. It supports incremental construction during a dynamic
// programming traceback, reversal of a backward-built transcript, CIGAR
// rendering/parsing, and score re-evaluation against the original
// sequences and scoring matrix.
package eoplist

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Kind identifies one of the four edit operations, or Undefined for an
// empty/uninitialized operator.
type Kind uint8

const (
	Deletion Kind = iota
	Insertion
	Mismatch
	Match
	Undefined
)

func (k Kind) String() string {
	switch k {
	case Deletion:
		return "deletion"
	case Insertion:
		return "insertion"
	case Mismatch:
		return "mismatch"
	case Match:
		return "match"
	default:
		return "undefined"
	}
}

const (
	deletionChar    = 'D'
	insertionChar   = 'I'
	matchChar       = '='
	mismatchChar    = 'X'
	replacementChar = 'M'
)

// reserved eoplist byte codes. A byte below eopcodeMismatch encodes a
// match-run of length value+1; eopcodeMaxMatches is the largest such
// byte value plus one (253 matches max per run byte).
const (
	eopcodeMaxMatches = uint8(253)
	eopcodeMismatch   = uint8(253)
	eopcodeDeletion   = uint8(254)
	eopcodeInsertion  = uint8(255)
)

// ErrMalformedCigar is returned by ParseCigar when the input contains an
// operator character that is not one of '=', 'X', 'M', 'I', 'D'.
var ErrMalformedCigar = errors.New("malformed cigar string")

// Op is one coalesced edit operator as produced by iteration: a Kind and
// the number of times it repeats.
type Op struct {
	Kind      Kind
	Iteration int
}

// Char renders the operator's CIGAR letter. When distinguish is false,
// Mismatch renders the same as Match ('M' style, both become replacementChar
// mapped through the non-distinguishing table).
func (o Op) Char(distinguish bool) byte {
	if !distinguish && (o.Kind == Match || o.Kind == Mismatch) {
		return replacementChar
	}
	switch o.Kind {
	case Deletion:
		return deletionChar
	case Insertion:
		return insertionChar
	case Mismatch:
		return mismatchChar
	case Match:
		return matchChar
	default:
		return '?'
	}
}

// String renders "<iteration><char>", e.g. "12=" or "3X".
func (o Op) String(distinguish bool) string {
	return fmt.Sprintf("%d%c", o.Iteration, o.Char(distinguish))
}

// List is the run-length encoded edit-op transcript (the "Eoplist").
type List struct {
	eops []byte

	matches, mismatches, deletions, insertions, gapOpens int
	previousWasGap                                       bool
}

// New returns an empty edit-op list.
func New() *List {
	return &List{}
}

// Reset clears the transcript and its counters in place, reusing the
// underlying byte array.
func (l *List) Reset() {
	l.eops = l.eops[:0]
	l.matches, l.mismatches, l.deletions, l.insertions, l.gapOpens = 0, 0, 0, 0, 0
	l.previousWasGap = false
}

func (l *List) indelAdd(code uint8) {
	l.eops = append(l.eops, code)
	if !l.previousWasGap {
		l.gapOpens++
		l.previousWasGap = true
	}
}

// MatchAdd extends the transcript by length matching positions, coalescing
// into the previous match-run byte(s) where possible and splitting across
// multiple run bytes when length exceeds 253.
func (l *List) MatchAdd(length int) {
	if length <= 0 {
		panic("eoplist: MatchAdd requires a positive length")
	}
	l.matches += length
	for length > 0 {
		if n := len(l.eops); n > 0 && l.eops[n-1] < eopcodeMaxMatches-1 {
			last := int(l.eops[n-1])
			if last+length < int(eopcodeMaxMatches) {
				l.eops[n-1] += uint8(length)
				length = 0
			} else {
				length -= int(eopcodeMaxMatches) - 1 - last
				l.eops[n-1] = eopcodeMaxMatches - 1
			}
		} else if length <= int(eopcodeMaxMatches) {
			l.eops = append(l.eops, uint8(length-1))
			length = 0
		} else {
			l.eops = append(l.eops, eopcodeMaxMatches-1)
			length -= int(eopcodeMaxMatches)
		}
	}
	l.previousWasGap = false
}

// MismatchAdd appends a single mismatch operation.
func (l *List) MismatchAdd() {
	l.eops = append(l.eops, eopcodeMismatch)
	l.mismatches++
	l.previousWasGap = false
}

// DeletionAdd appends a single deletion (a gap on the second sequence).
func (l *List) DeletionAdd() {
	l.indelAdd(eopcodeDeletion)
	l.deletions++
}

// InsertionAdd appends a single insertion (a gap on the first sequence).
func (l *List) InsertionAdd() {
	l.indelAdd(eopcodeInsertion)
	l.insertions++
}

// Size returns the number of raw bytes in the encoded transcript.
func (l *List) Size() int {
	return len(l.eops)
}

// ReverseEnd reverses the byte array from index from to the end in place.
// Every reserved single-byte op is self-contained, so a byte-wise reversal
// correctly turns a backward-built traceback into a forward transcript.
func (l *List) ReverseEnd(from int) {
	if from+1 >= len(l.eops) {
		return
	}
	for i, j := from, len(l.eops)-1; i < j; i, j = i+1, j-1 {
		l.eops[i], l.eops[j] = l.eops[j], l.eops[i]
	}
}

// Counts returns the incrementally maintained operation counters.
func (l *List) Counts() (matches, mismatches, deletions, insertions, gapOpens int) {
	return l.matches, l.mismatches, l.deletions, l.insertions, l.gapOpens
}

// AlignedLen returns the combined alignment length (matches and mismatches
// counted on both sequences, indels on one).
func (l *List) AlignedLen() int {
	return l.deletions + l.insertions + 2*(l.mismatches+l.matches)
}

// AlignedLenU returns the aligned length on the first sequence.
func (l *List) AlignedLenU() int {
	return l.deletions + l.mismatches + l.matches
}

// AlignedLenV returns the aligned length on the second sequence.
func (l *List) AlignedLenV() int {
	return l.insertions + l.mismatches + l.matches
}

// Errors returns the total number of mismatches and indels.
func (l *List) Errors() int {
	return l.deletions + l.insertions + l.mismatches
}

// ErrorPercentage returns 100 * errors / average-aligned-length, following
// the 200*errors/alignedLen convention of the original (alignedLen already
// sums both sequences).
func (l *List) ErrorPercentage() float64 {
	return 200.0 * float64(l.Errors()) / float64(l.AlignedLen())
}

// Iter walks the coalesced CIGAR operators of the transcript.
type Iter struct {
	eops         []byte
	distinguish  bool
	idx          int
}

// Ops returns an iterator over the coalesced CIGAR operators of l.
func (l *List) Ops(distinguish bool) *Iter {
	return &Iter{eops: l.eops, distinguish: distinguish}
}

// Next returns the next coalesced operator, or ok=false when exhausted.
func (it *Iter) Next() (op Op, ok bool) {
	if it.idx >= len(it.eops) {
		return Op{}, false
	}
	op.Kind = Undefined
	for it.idx < len(it.eops) {
		eop := it.eops[it.idx]
		if op.Iteration > 0 {
			switch eop {
			case eopcodeDeletion:
				if op.Kind == Deletion {
					op.Iteration++
					it.idx++
					continue
				}
				return op, true
			case eopcodeInsertion:
				if op.Kind == Insertion {
					op.Iteration++
					it.idx++
					continue
				}
				return op, true
			case eopcodeMismatch:
				want := Match
				if it.distinguish {
					want = Mismatch
				}
				if op.Kind == want {
					op.Iteration++
					it.idx++
					continue
				}
				return op, true
			default:
				if op.Kind == Match {
					op.Iteration += 1 + int(eop)
					it.idx++
					continue
				}
				return op, true
			}
		}
		switch eop {
		case eopcodeDeletion:
			op.Kind, op.Iteration = Deletion, 1
		case eopcodeInsertion:
			op.Kind, op.Iteration = Insertion, 1
		case eopcodeMismatch:
			if it.distinguish {
				op.Kind = Mismatch
			} else {
				op.Kind = Match
			}
			op.Iteration = 1
		default:
			op.Kind, op.Iteration = Match, 1+int(eop)
		}
		it.idx++
	}
	return op, true
}

// CigarString renders the transcript as a CIGAR string. When distinguish is
// false, matches and mismatches both render as 'M'.
func (l *List) CigarString(distinguish bool) string {
	var b []byte
	it := l.Ops(distinguish)
	for {
		op, ok := it.Next()
		if !ok {
			break
		}
		b = append(b, op.String(distinguish)...)
	}
	return string(b)
}

// Equal reports whether two transcripts encode the same byte sequence.
func (l *List) Equal(other *List) bool {
	if len(l.eops) != len(other.eops) {
		return false
	}
	for i := range l.eops {
		if l.eops[i] != other.eops[i] {
			return false
		}
	}
	return true
}

// ParseCigar builds a List from a CIGAR string such as "12=3X4D2=". An
// unrecognized operator character fails with ErrMalformedCigar.
func ParseCigar(distinguish bool, cigar string) (*List, error) {
	l := New()
	iteration := 0
	for _, cc := range cigar {
		if cc >= '0' && cc <= '9' {
			iteration = iteration*10 + int(cc-'0')
			continue
		}
		switch byte(cc) {
		case deletionChar:
			for i := 0; i < iteration; i++ {
				l.DeletionAdd()
			}
		case insertionChar:
			for i := 0; i < iteration; i++ {
				l.InsertionAdd()
			}
		case mismatchChar:
			for i := 0; i < iteration; i++ {
				l.MismatchAdd()
			}
		case matchChar, replacementChar:
			l.MatchAdd(iteration)
		default:
			return nil, errors.E(ErrMalformedCigar, fmt.Sprintf("illegal symbol %q in cigar string %q", cc, cigar))
		}
		iteration = 0
	}
	return l, nil
}

// EvaluateScore recomputes the alignment score the transcript implies over
// the given sequences, gap costs and scoring matrix. It is used to assert
// that a banded DP score and the traceback it produced agree.
func (l *List) EvaluateScore(u, v []byte, gapOpen, gapExt int8, rows [][]int8) int64 {
	var score int64
	ui, vi := 0, 0
	it := l.Ops(true)
	for {
		op, ok := it.Next()
		if !ok {
			break
		}
		switch op.Kind {
		case Match, Mismatch:
			for j := 0; j < op.Iteration; j++ {
				score += int64(rows[u[ui]][v[vi]])
				ui++
				vi++
			}
		case Deletion:
			score -= int64(gapOpen) + int64(op.Iteration)*int64(gapExt)
			ui += op.Iteration
		case Insertion:
			score -= int64(gapOpen) + int64(op.Iteration)*int64(gapExt)
			vi += op.Iteration
		}
	}
	return score
}

func eopcodeIsMatch(eop uint8) bool      { return eop < eopcodeMismatch }
func eopcodeIsMismatch(eop uint8) bool   { return eop == eopcodeMismatch }
func eopcodeIsDeletion(eop uint8) bool   { return eop == eopcodeDeletion }
func eopcodeIsInsertion(eop uint8) bool  { return eop == eopcodeInsertion }

// CutOffUnpolishedTail trims a trailing run of mismatches/indels back to the
// last match, decrementing the corresponding counters. It reports whether
// anything was removed. Used by the all-against-all driver to discard a
// dangling unpolished tail before reporting identity/coverage.
func (l *List) CutOffUnpolishedTail() bool {
	if len(l.eops) == 0 {
		panic("eoplist: CutOffUnpolishedTail on empty list")
	}
	idx := len(l.eops) - 1
	for {
		eop := l.eops[idx]
		if eopcodeIsMatch(eop) {
			break
		}
		switch {
		case eopcodeIsMismatch(eop):
			l.mismatches--
		case eopcodeIsDeletion(eop):
			l.deletions--
		case eopcodeIsInsertion(eop):
			l.insertions--
		}
		if idx == 0 {
			break
		}
		idx--
	}
	diff := len(l.eops) - 1 - idx
	l.eops = l.eops[:len(l.eops)-diff]
	return diff > 0
}
