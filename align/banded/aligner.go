package banded

import (
	"github.com/alnkit/seqalign/eoplist"
)

// edgeKind identifies which of the three score-triple components a
// traceback edge came from.
type edgeKind uint8

const (
	edgeUndef edgeKind = iota
	edgeReplacement
	edgeDeletion
	edgeInsertion
)

// traceBits packs the three edges (replacement, deletion, insertion) that
// lead into one DP cell as 2-bit fields, mirroring AffineAlignTraceBits.
type traceBits uint8

func (t traceBits) edge(k edgeKind) edgeKind {
	shift := uint(2 * (int(k) - 1))
	return edgeKind((t >> shift) & 3)
}

func setTrace(r, d, i edgeKind) traceBits {
	return traceBits(r) | traceBits(d)<<2 | traceBits(i)<<4
}

// scoreTriple holds the three affine-gap score lanes (replacement,
// deletion, insertion) for one DP cell.
type scoreTriple struct {
	R, D, I int64
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func growColumns(cur, want int) int {
	grown := int(float64(cur)*1.2) + 128
	if want > grown {
		return want
	}
	return grown
}

func growCells(cur, want int) int {
	grown := int(float64(cur)*1.2) + 1024
	if want > grown {
		return want
	}
	return grown
}

func nextBandWidth(width int) int {
	switch {
	case width < 4:
		return width * 2
	case width < 20:
		return (width * 3) / 2
	default:
		return (width * 5) / 4
	}
}

// Aligner is the reusable, per-worker state for banded affine-gap global
// alignment: a growable rolling score column plus (when an edit-operation
// transcript is requested) a growable arena recording enough of the sweep
// to trace back through. It replaces GttlAffineDPbanded.
type Aligner struct {
	optMemory   bool
	needEoplist bool

	columnSpace []scoreTriple
	maxULen     int

	colOffsets []int
	maxVLen    int

	traceArena  []traceBits
	scoreArena  []scoreTriple
	matrixCells int

	lastValid                  bool
	lastGapOpen, lastGapExt    int8
	lastLeftDist, lastRightDist int64
}

// NewAligner returns an Aligner. optMemory selects the compact 1-byte-per-cell
// traceback representation over the full score-triple-per-cell one (only
// relevant when needEoplist is true); needEoplist controls whether any
// traceback-enabling arena is maintained at all.
func NewAligner(optMemory, needEoplist bool) *Aligner {
	return &Aligner{optMemory: optMemory, needEoplist: needEoplist}
}

func (a *Aligner) ensureColumnSpace(uLen int) {
	if uLen > a.maxULen {
		a.maxULen = growColumns(a.maxULen, uLen)
		ns := make([]scoreTriple, a.maxULen+1)
		copy(ns, a.columnSpace)
		a.columnSpace = ns
	}
}

func (a *Aligner) ensureColOffsets(vLen int) {
	if vLen > a.maxVLen {
		a.maxVLen = growColumns(a.maxVLen, vLen)
		a.colOffsets = make([]int, a.maxVLen+1)
	}
}

func (a *Aligner) ensureTraceArena(bandWidth, vLen int) {
	need := bandWidth * (vLen + 1)
	if need >= a.matrixCells {
		a.matrixCells = growCells(a.matrixCells, need)
		a.traceArena = make([]traceBits, a.matrixCells)
	}
}

func (a *Aligner) ensureScoreArena(bandWidth, vLen int) {
	need := bandWidth * (vLen + 1)
	if need >= a.matrixCells {
		a.matrixCells = growCells(a.matrixCells, need)
		a.scoreArena = make([]scoreTriple, a.matrixCells)
	}
}

// fillDPtabBits runs the column sweep, recording a compact trace byte per
// cell into a.traceArena/a.colOffsets. Ported from
// affine_diagonalband_fillDPtab_bits.
func (a *Aligner) fillDPtabBits(matrix ScoreMatrix, gapOpen, gapExt int8, minAlignScore int64, u, v Substring, leftDist, rightDist int64) int64 {
	startPenalty := int64(gapOpen) + int64(gapExt)
	uLen, vLen := u.Len(), v.Len()
	bandWidth := int(rightDist - leftDist + 1)

	a.ensureColumnSpace(uLen)
	a.ensureColOffsets(vLen)
	a.ensureTraceArena(bandWidth, vLen)
	cs := a.columnSpace
	trace := a.traceArena
	offs := a.colOffsets

	highRow := int(-leftDist)
	cs[0] = scoreTriple{0, -int64(gapOpen), -int64(gapOpen)}
	for i := 1; i <= highRow; i++ {
		trace[i] = setTrace(edgeUndef, edgeDeletion, edgeUndef)
		cs[i] = scoreTriple{minAlignScore, cs[i-1].D - int64(gapExt), minAlignScore}
	}

	lowRow := 0
	runningCells := highRow + 1
	offs[0] = 0

	for j := 1; j <= vLen; j++ {
		prevHighRow := highRow

		width := highRow - lowRow + 1
		runningCells += width
		offs[j] = runningCells - lowRow

		cb := v.At(j - 1)
		firstIvalue := minAlignScore
		if int64(j) <= rightDist {
			firstIvalue = cs[lowRow].I - int64(gapExt)
			trace[offs[j]+lowRow] = setTrace(edgeUndef, edgeUndef, edgeInsertion)
		}
		nw := cs[lowRow]
		cs[lowRow] = scoreTriple{minAlignScore, minAlignScore, firstIvalue}

		if highRow < uLen {
			highRow++
		}
		scoreRow := matrix.Rows[cb]

		for i := lowRow + 1; i <= highRow; i++ {
			var current scoreTriple
			rmax := edgeReplacement
			current.R = nw.R
			if current.R < nw.D {
				current.R = nw.D
				rmax = edgeDeletion
			}
			if current.R < nw.I {
				current.R = nw.I
				rmax = edgeInsertion
			}
			current.R += int64(scoreRow[u.At(i-1)])

			scoreFromR := cs[i-1].R - startPenalty
			scoreFromD := cs[i-1].D - int64(gapExt)
			var dmax edgeKind
			if scoreFromR >= scoreFromD {
				current.D = scoreFromR
				dmax = edgeReplacement
			} else {
				current.D = scoreFromD
				dmax = edgeDeletion
			}

			current.I = minAlignScore
			imax := edgeUndef
			if i <= prevHighRow {
				scoreFromR2 := cs[i].R - startPenalty
				scoreFromI := cs[i].I - int64(gapExt)
				if scoreFromR2 >= scoreFromI {
					current.I = scoreFromR2
					imax = edgeReplacement
				} else {
					current.I = scoreFromI
					imax = edgeInsertion
				}
			}

			nw = cs[i]
			cs[i] = current
			trace[offs[j]+i] = setTrace(rmax, dmax, imax)
		}

		if int64(j) > rightDist {
			lowRow++
		}
	}
	return cs[uLen].R
}

// fillDPtabScores runs the column sweep using only score triples. When
// keepColumns is true, it additionally records the full per-column score
// arena needed by the score-mode traceback. Ported from
// affine_diagonalband_fillDPtab_scores.
func (a *Aligner) fillDPtabScores(keepColumns bool, matrix ScoreMatrix, gapOpen, gapExt int8, minAlignScore int64, u, v Substring, leftDist, rightDist int64) int64 {
	startPenalty := int64(gapOpen) + int64(gapExt)
	uLen, vLen := u.Len(), v.Len()

	a.ensureColumnSpace(uLen)
	cs := a.columnSpace

	highRow := int(-leftDist)
	cs[0] = scoreTriple{0, -int64(gapOpen), -int64(gapOpen)}
	for i := 1; i <= highRow; i++ {
		cs[i] = scoreTriple{minAlignScore, cs[i-1].D - int64(gapExt), minAlignScore}
	}

	lowRow := 0
	var runningCells int
	var arena []scoreTriple
	var offs []int
	if keepColumns {
		bandWidth := int(rightDist - leftDist + 1)
		a.ensureColOffsets(vLen)
		a.ensureScoreArena(bandWidth, vLen)
		arena = a.scoreArena
		offs = a.colOffsets

		width0 := highRow - lowRow + 1
		copy(arena[0:width0], cs[0:width0])
		offs[0] = 0
		runningCells = width0
	}

	for j := 1; j <= vLen; j++ {
		cb := v.At(j - 1)
		firstIvalue := minAlignScore
		prevHighRow := highRow
		if int64(j) <= rightDist {
			firstIvalue = cs[lowRow].I - int64(gapExt)
		}
		nw := cs[lowRow]
		cs[lowRow] = scoreTriple{minAlignScore, minAlignScore, firstIvalue}

		scoreRow := matrix.Rows[cb]
		for i := lowRow + 1; i <= prevHighRow; i++ {
			scoreFromR1 := cs[i-1].R - startPenalty
			scoreFromD := cs[i-1].D - int64(gapExt)
			scoreFromR2 := cs[i].R - startPenalty
			scoreFromI := cs[i].I - int64(gapExt)

			var current scoreTriple
			current.D = max64(scoreFromR1, scoreFromD)
			current.I = max64(scoreFromR2, scoreFromI)
			current.R = max64(nw.R, max64(nw.D, nw.I)) + int64(scoreRow[u.At(i-1)])

			nw = cs[i]
			cs[i] = current
		}

		if highRow < uLen {
			caIdx := u.At(highRow)
			highRow++
			scoreFromR := cs[prevHighRow].R - startPenalty
			scoreFromD := cs[prevHighRow].D - int64(gapExt)

			var current scoreTriple
			current.D = max64(scoreFromR, scoreFromD)
			current.I = minAlignScore
			current.R = max64(nw.R, max64(nw.D, nw.I)) + int64(scoreRow[caIdx])
			cs[highRow] = current
		}

		if int64(j) > rightDist {
			lowRow++
		}

		if keepColumns {
			width := highRow - lowRow + 1
			offs[j] = runningCells - lowRow
			copy(arena[runningCells:runningCells+width], cs[lowRow:lowRow+width])
			runningCells += width
		}
	}
	return cs[uLen].R
}

// Align runs the geometrically-growing-band driver (alignment_get):
// starting from the band width forced by the length difference of u and
// v, it repeatedly fills the DP table and widens the band until the score
// stabilizes or meets expectedScore. expectedScore 0 is the sentinel for
// "no expected score known": with noScoreRun false that accepts the first
// (narrowest) band's score unconditionally; with noScoreRun true it keeps
// growing until the score stops changing between iterations (or the band
// covers the full matrix), per spec.md §4.2.
func (a *Aligner) Align(matrix ScoreMatrix, gapOpen, gapExt int8, u, v Substring, noScoreRun bool, expectedScore int64) (int64, error) {
	uLen, vLen := u.Len(), v.Len()
	lendiff := vLen - uLen
	diff := lendiff
	if diff < 0 {
		diff = -diff
	}
	bandWidth := 1 + diff
	minAlignScore := int64(uLen+vLen) * int64(matrix.Smallest)
	previousDPScore := minAlignScore

	for {
		leftDist := int64(-bandWidth)
		rightDist := int64(bandWidth)
		if leftDist < int64(-uLen) {
			leftDist = int64(-uLen)
		}
		if rightDist > int64(vLen) {
			rightDist = int64(vLen)
		}

		var dpScore int64
		switch {
		case a.needEoplist && a.optMemory:
			dpScore = a.fillDPtabBits(matrix, gapOpen, gapExt, minAlignScore, u, v, leftDist, rightDist)
		case a.needEoplist:
			dpScore = a.fillDPtabScores(true, matrix, gapOpen, gapExt, minAlignScore, u, v, leftDist, rightDist)
		default:
			dpScore = a.fillDPtabScores(false, matrix, gapOpen, gapExt, minAlignScore, u, v, leftDist, rightDist)
		}

		fullBand := leftDist == int64(-uLen) && rightDist == int64(vLen)
		hasExpected := expectedScore != 0
		acceptFirst := !noScoreRun && !hasExpected
		meetsExpected := hasExpected && dpScore >= expectedScore
		stabilized := noScoreRun && previousDPScore == dpScore
		if acceptFirst || meetsExpected || stabilized || fullBand {
			a.lastValid = true
			a.lastGapOpen, a.lastGapExt = gapOpen, gapExt
			a.lastLeftDist, a.lastRightDist = leftDist, rightDist
			return dpScore, nil
		}
		previousDPScore = dpScore
		bandWidth = nextBandWidth(bandWidth)
	}
}

// Traceback recomputes the edit-operation transcript for the most recent
// successful Align call on this Aligner, dispatching to the bit-packed or
// score-recomputing traceback path chosen at construction.
func (a *Aligner) Traceback(eo *eoplist.List, u, v Substring) {
	if !a.needEoplist || !a.lastValid {
		panic("banded: Traceback requires a prior Align call with needEoplist=true")
	}
	eo.Reset()
	if a.optMemory {
		tracebackBits(eo, u, v, a.traceArena, a.colOffsets)
	} else {
		tracebackScores(eo, u, v, a.scoreArena, a.colOffsets, a.lastGapOpen, a.lastGapExt)
	}
	eo.ReverseEnd(0)
}

// tracebackBits walks the compact trace arena from (ulen, vlen) back to
// (0, 0). Ported from affine_global_alignment_traceback_bits.
func tracebackBits(eo *eoplist.List, u, v Substring, trace []traceBits, offs []int) {
	edge := edgeReplacement
	i, j := u.Len(), v.Len()
	for i > 0 || j > 0 {
		tb := trace[offs[j]+i]
		switch edge {
		case edgeReplacement:
			if u.At(i-1) == v.At(j-1) {
				eo.MatchAdd(1)
			} else {
				eo.MismatchAdd()
			}
			edge = tb.edge(edgeReplacement)
			i--
			j--
		case edgeDeletion:
			eo.DeletionAdd()
			edge = tb.edge(edgeDeletion)
			i--
		default:
			eo.InsertionAdd()
			edge = tb.edge(edgeInsertion)
			j--
		}
	}
}

// tracebackScores walks back through the kept score arena, recomputing at
// each step which edge the maximum came from instead of reading a stored
// trace byte. Ported from affine_global_alignment_traceback_scores; the
// tie-break always prefers a strictly-greater edge, checked R, then D,
// then I.
func tracebackScores(eo *eoplist.List, u, v Substring, arena []scoreTriple, offs []int, gapOpen, gapExt int8) {
	startPenalty := int64(gapOpen) + int64(gapExt)
	edge := edgeReplacement
	i, j := u.Len(), v.Len()
	for i > 0 || j > 0 {
		switch edge {
		case edgeReplacement:
			if u.At(i-1) == v.At(j-1) {
				eo.MatchAdd(1)
			} else {
				eo.MismatchAdd()
			}
			i--
			j--
			prev := arena[offs[j]+i]
			maxValue := prev.R
			if prev.D > maxValue {
				maxValue = prev.D
			}
			if prev.I > maxValue {
				maxValue = prev.I
			}
			if maxValue > prev.R {
				if maxValue == prev.D {
					edge = edgeDeletion
				} else if maxValue == prev.I {
					edge = edgeInsertion
				}
			}
		case edgeDeletion:
			eo.DeletionAdd()
			i--
			prev := arena[offs[j]+i]
			if prev.R-startPenalty >= prev.D-int64(gapExt) {
				edge = edgeReplacement
			}
		default:
			eo.InsertionAdd()
			j--
			prev := arena[offs[j]+i]
			if prev.R-startPenalty >= prev.I-int64(gapExt) {
				edge = edgeReplacement
			}
		}
	}
}
