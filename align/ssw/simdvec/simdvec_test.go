package simdvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec8SaturatingAdd(t *testing.T) {
	a := Vec8{250, 10, 0}
	b := Vec8{10, 10, 5}
	got := a.SaturatingAdd(b)
	assert.Equal(t, Vec8{255, 20, 5}, got)
}

func TestVec8SaturatingSub(t *testing.T) {
	a := Vec8{5, 10}
	b := Vec8{10, 4}
	got := a.SaturatingSub(b)
	assert.Equal(t, Vec8{0, 6}, got)
}

func TestVec8Max(t *testing.T) {
	a := Vec8{1, 9, 3}
	b := Vec8{4, 2, 3}
	assert.Equal(t, Vec8{4, 9, 3}, a.Max(b))
}

func TestVec8ShiftRightOne(t *testing.T) {
	a := Vec8{1, 2, 3}
	assert.Equal(t, Vec8{0, 1, 2}, a.ShiftRightOne(0))
}

func TestVec16SaturatingAddClamps(t *testing.T) {
	a := Vec16{32760, -32760}
	b := Vec16{100, -100}
	got := a.SaturatingAdd(b)
	assert.Equal(t, Vec16{32767, -32768}, got)
}

func TestLaneConstants(t *testing.T) {
	assert.Equal(t, Lanes8, len(NewVec8()))
	assert.Equal(t, Lanes16, len(NewVec16()))
}
