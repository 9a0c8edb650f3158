package ssw

import (
	"fmt"

	"github.com/alnkit/seqalign/align/ssw/simdvec"
)

// Align runs a forward sweep to find the best-scoring local alignment of
// db against profile's query, then (unless computeOnlyEnd is set) a
// reverse sweep over the aligned prefixes to recover its start
// coordinates.
//
// The forward sweep first tries the biased uint8 layout, the fast path
// per spec.md §4.3/§4.3.2: ssw.hpp's ssw_align biases every profile entry
// by abs(smallest_score) at profile-build time (profile.go), then each DP
// cell adds the biased entry and immediately subtracts the bias back out
// (sweep8's SaturatingAdd-then-SaturatingSub), which both floors the local
// alignment at zero and keeps every H cell an exact, unbiased score - the
// bias never accumulates across cells. If any cell's corrected score plus
// the bias reaches the uint8 ceiling (255), the biased add may have
// saturated and the true score cannot be distinguished from a clipped
// one, so the whole forward (and, if needed, reverse) sweep is
// rerun over the unbiased int16 layout instead, mirroring ssw_align's
// "forward_ec.opt_loc_alignment_score == UINT8_MAX" rerun condition.
func Align(profile *Profile, res *Resources, db []byte, gapOpen, gapExt uint8, computeOnlyEnd bool) (Result, error) {
	if profile == nil || profile.matrix.Alphasize == 0 {
		return Result{}, fmt.Errorf("ssw: nil or empty profile")
	}
	if len(db) == 0 {
		return Result{}, nil
	}

	res.ensure8(profile.segLen8 * simdvec.Lanes8)
	res.Reset()

	bestScore8, endDB, endQuery, overflowed := sweep8(profile, res.h8, res.e8, res.hMax8, db, gapOpen, gapExt, uint8(profile.bias), 0)

	var bestScore int32
	use16 := overflowed
	if overflowed {
		res.ensure16(profile.segLen16 * simdvec.Lanes16)
		res.Reset()
		bestScore, endDB, endQuery = sweep16(profile, res.h16, res.e16, res.hMax16, db, int16(gapOpen), int16(gapExt), 0)
	} else {
		bestScore = bestScore8
	}
	if endDB < 0 {
		return Result{}, nil
	}

	result := Result{
		RawScore:         uint32(bestScore),
		UStart:           0,
		USubstringLength: endQuery + 1,
		VStart:           0,
		VSubstringLength: endDB + 1,
		ForwardStrand:    true,
	}

	if computeOnlyEnd {
		return result, nil
	}

	revQuery := append([]byte(nil), profile.query[:endQuery+1]...)
	revProfile := BuildProfile(profile.matrix, revQuery, true)
	revDB := reverseBytes(db[:endDB+1])

	var revEndDB, revEndQuery int
	if use16 {
		res.ensure16(revProfile.segLen16 * simdvec.Lanes16)
		res.Reset()
		_, revEndDB, revEndQuery = sweep16(revProfile, res.h16, res.e16, res.hMax16, revDB, int16(gapOpen), int16(gapExt), bestScore)
	} else {
		res.ensure8(revProfile.segLen8 * simdvec.Lanes8)
		res.Reset()
		var revOverflowed bool
		_, revEndDB, revEndQuery, revOverflowed = sweep8(revProfile, res.h8, res.e8, res.hMax8, revDB, gapOpen, gapExt, uint8(revProfile.bias), bestScore)
		if revOverflowed {
			res.ensure16(revProfile.segLen16 * simdvec.Lanes16)
			res.Reset()
			_, revEndDB, revEndQuery = sweep16(revProfile, res.h16, res.e16, res.hMax16, revDB, int16(gapOpen), int16(gapExt), bestScore)
		}
	}
	if revEndDB >= 0 {
		result.UStart = endQuery - revEndQuery
		result.USubstringLength = revEndQuery + 1
		result.VStart = endDB - revEndDB
		result.VSubstringLength = revEndDB + 1
	}

	return result, nil
}

// AlignReverseComplement aligns the reverse complement of db against
// profile, reporting coordinates mapped back onto the original
// (forward-strand) db.
func AlignReverseComplement(profile *Profile, res *Resources, db []byte, gapOpen, gapExt uint8, computeOnlyEnd bool) (Result, error) {
	rc := make([]byte, len(db))
	for i, c := range db {
		rc[len(db)-1-i] = complementCode(c)
	}
	result, err := Align(profile, res, rc, gapOpen, gapExt, computeOnlyEnd)
	if err != nil || result.VSubstringLength == 0 {
		return result, err
	}
	result.ForwardStrand = false
	rcEnd := result.VStart + result.VSubstringLength - 1
	result.VStart = len(db) - 1 - rcEnd
	return result, nil
}

// sweep16 runs the forward striped sweep in unbiased int16 arithmetic,
// with an explicit local-alignment floor at zero, returning the best
// score found and the (query, db) position at which it was reached.
// expectedScore, when positive, lets the reverse pass terminate as soon
// as it reproduces the forward pass's score rather than scanning the
// whole reversed prefix.
func sweep16(p *Profile, h, e, hMax []int16, db []byte, gapOpen, gapExt int16, expectedScore int32) (bestScore int32, endDB, endQuery int) {
	segLen := p.segLen16
	lanes := simdvec.Lanes16
	endDB, endQuery = -1, -1
	if segLen == 0 {
		return 0, endDB, endQuery
	}

	openExt := constVec16(gapOpen+gapExt, lanes)
	extVec := constVec16(gapExt, lanes)

	for j := 0; j < len(db); j++ {
		col := p.col16(db[j])
		vh := simdvec.Vec16(h[(segLen-1)*lanes : segLen*lanes]).ShiftRightOne(0)
		vf := simdvec.NewVec16()

		for i := 0; i < segLen; i++ {
			segH := simdvec.Vec16(h[i*lanes : (i+1)*lanes])
			segE := simdvec.Vec16(e[i*lanes : (i+1)*lanes])
			segHMax := simdvec.Vec16(hMax[i*lanes : (i+1)*lanes])
			segProfile := simdvec.Vec16(col[i*lanes : (i+1)*lanes])

			newH := vh.SaturatingAdd(segProfile).Max(segE).Max(vf)
			newH = floorZero16(newH)
			copy(segHMax, segHMax.Max(newH))

			newE := segE.SaturatingSub(extVec).Max(newH.SaturatingSub(openExt))
			newF := vf.SaturatingSub(extVec).Max(newH.SaturatingSub(openExt))

			vh = append(simdvec.Vec16(nil), segH...)
			copy(segH, newH)
			copy(segE, newE)
			vf = newF

			for k := 0; k < lanes; k++ {
				pos := k*segLen + i
				if pos >= len(p.query) {
					continue
				}
				if int32(newH[k]) > bestScore {
					bestScore = int32(newH[k])
					endQuery = pos
					endDB = j
				}
			}
		}

		for iter := 0; iter < lanes; iter++ {
			vf = vf.ShiftRightOne(0)
			changed := false
			for i := 0; i < segLen; i++ {
				segH := simdvec.Vec16(h[i*lanes : (i+1)*lanes])
				cand := segH.Max(vf)
				for k := 0; k < lanes; k++ {
					if cand[k] != segH[k] {
						changed = true
					}
				}
				copy(segH, cand)
				vf = vf.SaturatingSub(extVec)
			}
			if !changed {
				break
			}
		}

		if expectedScore > 0 && bestScore >= expectedScore {
			break
		}
	}
	return bestScore, endDB, endQuery
}

// sweep8 runs the forward (or reverse) striped sweep in biased uint8
// arithmetic, per ssw.hpp's ssw_seq_profile/ssw_align: the profile column
// already carries score+bias (profile.go), so each cell's
// SaturatingAdd-then-SaturatingSub(bias) both recovers the exact unbiased
// score and floors the local alignment at zero in one step - no separate
// floor pass is needed, unlike sweep16. expectedScore, when positive, lets
// a reverse pass stop as soon as it reproduces the forward score.
// overflowed reports whether any in-range cell's corrected score plus the
// bias reached the uint8 ceiling (255), at which point the biased add may
// have saturated, the true score is indistinguishable from a clipped one
// and the caller must rerun the sweep in 16-bit.
func sweep8(p *Profile, h, e, hMax []uint8, db []byte, gapOpen, gapExt, bias uint8, expectedScore int32) (bestScore int32, endDB, endQuery int, overflowed bool) {
	segLen := p.segLen8
	lanes := simdvec.Lanes8
	endDB, endQuery = -1, -1
	if segLen == 0 {
		return 0, endDB, endQuery, false
	}

	openExt := constVec8(gapOpen+gapExt, lanes)
	extVec := constVec8(gapExt, lanes)
	biasVec := constVec8(bias, lanes)

	for j := 0; j < len(db); j++ {
		col := p.col8(db[j])
		vh := simdvec.Vec8(h[(segLen-1)*lanes : segLen*lanes]).ShiftRightOne(0)
		vf := simdvec.NewVec8()

		for i := 0; i < segLen; i++ {
			segH := simdvec.Vec8(h[i*lanes : (i+1)*lanes])
			segE := simdvec.Vec8(e[i*lanes : (i+1)*lanes])
			segHMax := simdvec.Vec8(hMax[i*lanes : (i+1)*lanes])
			segProfile := simdvec.Vec8(col[i*lanes : (i+1)*lanes])

			newH := vh.SaturatingAdd(segProfile).SaturatingSub(biasVec).Max(segE).Max(vf)
			copy(segHMax, segHMax.Max(newH))

			newE := segE.SaturatingSub(extVec).Max(newH.SaturatingSub(openExt))
			newF := vf.SaturatingSub(extVec).Max(newH.SaturatingSub(openExt))

			vh = append(simdvec.Vec8(nil), segH...)
			copy(segH, newH)
			copy(segE, newE)
			vf = newF

			for k := 0; k < lanes; k++ {
				pos := k*segLen + i
				if pos >= len(p.query) {
					continue
				}
				if int(newH[k])+int(bias) >= 255 {
					overflowed = true
				}
				if int32(newH[k]) > bestScore {
					bestScore = int32(newH[k])
					endQuery = pos
					endDB = j
				}
			}
		}

		for iter := 0; iter < lanes; iter++ {
			vf = vf.ShiftRightOne(0)
			changed := false
			for i := 0; i < segLen; i++ {
				segH := simdvec.Vec8(h[i*lanes : (i+1)*lanes])
				cand := segH.Max(vf)
				for k := 0; k < lanes; k++ {
					if cand[k] != segH[k] {
						changed = true
					}
				}
				copy(segH, cand)
				vf = vf.SaturatingSub(extVec)
			}
			if !changed {
				break
			}
		}

		if overflowed {
			return bestScore, endDB, endQuery, true
		}
		if expectedScore > 0 && bestScore >= expectedScore {
			break
		}
	}
	return bestScore, endDB, endQuery, overflowed
}

func floorZero16(v simdvec.Vec16) simdvec.Vec16 {
	out := make(simdvec.Vec16, len(v))
	for i, x := range v {
		if x > 0 {
			out[i] = x
		}
	}
	return out
}

func constVec16(v int16, lanes int) simdvec.Vec16 {
	out := make(simdvec.Vec16, lanes)
	for i := range out {
		out[i] = v
	}
	return out
}

func constVec8(v uint8, lanes int) simdvec.Vec8 {
	out := make(simdvec.Vec8, lanes)
	for i := range out {
		out[i] = v
	}
	return out
}
