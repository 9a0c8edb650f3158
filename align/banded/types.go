package banded

import "fmt"

// ScoreMatrix is a square substitution-cost table over an alphabet of size
// Alphasize, plus the smallest (most negative) entry the matrix can ever
// produce — used to seed the banded DP's out-of-band sentinel score.
type ScoreMatrix struct {
	Alphasize int
	Smallest  int8
	Rows      [][]int8
}

// Band describes the diagonal band [Left, Right] a banded alignment is
// restricted to, measured in j-i (column minus row) offsets.
type Band struct {
	Left, Right int64
}

// Validate checks that the band actually covers the two sequences' forced
// diagonal, i.e. that at least one path from (0,0) to (ulen,vlen) stays
// inside it.
func (b Band) Validate(ulen, vlen int) error {
	lendiff := int64(vlen) - int64(ulen)
	if b.Left > 0 || b.Left > lendiff {
		return fmt.Errorf("banded: left distance %d must be <= min(0, %d)", b.Left, lendiff)
	}
	if b.Left < -int64(ulen) {
		return fmt.Errorf("banded: left distance %d is narrower than -ulen (%d)", b.Left, -ulen)
	}
	if b.Right < 0 || b.Right < lendiff {
		return fmt.Errorf("banded: right distance %d must be >= max(0, %d)", b.Right, lendiff)
	}
	if b.Right > int64(vlen) {
		return fmt.Errorf("banded: right distance %d exceeds vlen (%d)", b.Right, vlen)
	}
	return nil
}
