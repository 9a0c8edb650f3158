package simdvec

// Vec8 is a lane-wise vector of saturating unsigned bytes, sized Lanes8.
type Vec8 []uint8

// Vec16 is a lane-wise vector of signed 16-bit lanes, sized Lanes16.
type Vec16 []int16

// NewVec8 returns a zeroed Vec8 of Lanes8 lanes.
func NewVec8() Vec8 { return make(Vec8, Lanes8) }

// NewVec16 returns a zeroed Vec16 of Lanes16 lanes.
func NewVec16() Vec16 { return make(Vec16, Lanes16) }

// SaturatingAdd returns the lane-wise sum of v and other, clamped to 255.
func (v Vec8) SaturatingAdd(other Vec8) Vec8 {
	out := make(Vec8, len(v))
	for i := range v {
		sum := uint16(v[i]) + uint16(other[i])
		if sum > 255 {
			sum = 255
		}
		out[i] = uint8(sum)
	}
	return out
}

// SaturatingSub returns the lane-wise difference of v and other, clamped to 0.
func (v Vec8) SaturatingSub(other Vec8) Vec8 {
	out := make(Vec8, len(v))
	for i := range v {
		if v[i] > other[i] {
			out[i] = v[i] - other[i]
		} else {
			out[i] = 0
		}
	}
	return out
}

// Max returns the lane-wise maximum of v and other.
func (v Vec8) Max(other Vec8) Vec8 {
	out := make(Vec8, len(v))
	for i := range v {
		out[i] = v[i]
		if other[i] > out[i] {
			out[i] = other[i]
		}
	}
	return out
}

// ShiftRightOne shifts every lane right by one lane position, inserting
// fill in the vacated lowest lane — the cross-segment boundary shift used
// when moving from one striped segment to the next.
func (v Vec8) ShiftRightOne(fill uint8) Vec8 {
	out := make(Vec8, len(v))
	out[0] = fill
	copy(out[1:], v[:len(v)-1])
	return out
}

// SaturatingAdd returns the lane-wise sum of v and other, clamped to the
// int16 range.
func (v Vec16) SaturatingAdd(other Vec16) Vec16 {
	out := make(Vec16, len(v))
	for i := range v {
		sum := int32(v[i]) + int32(other[i])
		out[i] = clampInt16(sum)
	}
	return out
}

// SaturatingSub returns the lane-wise difference of v and other, clamped to
// the int16 range.
func (v Vec16) SaturatingSub(other Vec16) Vec16 {
	out := make(Vec16, len(v))
	for i := range v {
		diff := int32(v[i]) - int32(other[i])
		out[i] = clampInt16(diff)
	}
	return out
}

// Max returns the lane-wise maximum of v and other.
func (v Vec16) Max(other Vec16) Vec16 {
	out := make(Vec16, len(v))
	for i := range v {
		out[i] = v[i]
		if other[i] > out[i] {
			out[i] = other[i]
		}
	}
	return out
}

// ShiftRightOne shifts every lane right by one lane position, inserting
// fill in the vacated lowest lane.
func (v Vec16) ShiftRightOne(fill int16) Vec16 {
	out := make(Vec16, len(v))
	out[0] = fill
	copy(out[1:], v[:len(v)-1])
	return out
}

func clampInt16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
