package pairsearch

import "sort"

// Tile is one work unit handed to a worker goroutine: a rectangular block
// of the ref x query comparison matrix. Triangle marks a block on the
// diagonal of a self-comparison (ref == query), where only the upper
// half (QueryStart+j > RefStart+i) needs to be compared.
type Tile struct {
	RefStart, RefLen     int
	QueryStart, QueryLen int
	Triangle             bool
}

func (t Tile) antidiagonal() int {
	if t.Triangle {
		return 2 * t.RefStart
	}
	return t.RefStart + t.QueryStart
}

// Tiles partitions an m x n comparison matrix into blocks no larger than
// cut on a side, ported from MatrixPartition's recursive longer-side
// bisection (general case) and its diagonal/cross-block construction for
// self-comparisons (sameMultiseq), then sorts the result by antidiagonal
// with RefStart as the tie-break, matching matrix_partition's qsort
// comparator.
func Tiles(cut, m, n int, sameMultiseq bool) []Tile {
	if cut <= 0 {
		panic("pairsearch: Tiles requires cut > 0")
	}

	var tiles []Tile
	if sameMultiseq {
		tiles = selfComparisonTiles(cut, m)
	} else {
		tiles = bisectionTiles(cut, m, n)
	}

	sort.Slice(tiles, func(a, b int) bool {
		da, db := tiles[a].antidiagonal(), tiles[b].antidiagonal()
		if da != db {
			return da < db
		}
		return tiles[a].RefStart < tiles[b].RefStart
	})
	return tiles
}

type interval struct{ start, length int }

func splitInterval(a, b int) (interval, interval) {
	h := b/2 + b%2
	return interval{a, h}, interval{a + h, b - h}
}

func bisectionTiles(cut, m, n int) []Tile {
	type block struct{ i, j, k, l int }
	stack := []block{{0, m, 0, n}}
	var out []Tile
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.j <= cut && top.l <= cut {
			out = append(out, Tile{RefStart: top.i, RefLen: top.j, QueryStart: top.k, QueryLen: top.l})
			continue
		}
		if top.j < top.l {
			left, right := splitInterval(top.k, top.l)
			stack = append(stack, block{top.i, top.j, left.start, left.length})
			stack = append(stack, block{top.i, top.j, right.start, right.length})
		} else {
			left, right := splitInterval(top.i, top.j)
			stack = append(stack, block{left.start, left.length, top.k, top.l})
			stack = append(stack, block{right.start, right.length, top.k, top.l})
		}
	}
	return out
}

func selfComparisonTiles(cut, m int) []Tile {
	var diag []interval
	for idx := 0; idx < m; idx += cut {
		length := cut
		if idx+cut > m {
			length = m - idx
		}
		if length > 0 {
			diag = append(diag, interval{idx, length})
		}
	}

	var out []Tile
	for _, d := range diag {
		out = append(out, Tile{RefStart: d.start, RefLen: d.length, QueryStart: d.start, QueryLen: d.length, Triangle: true})
	}
	for i := 0; i < len(diag)-1; i++ {
		for j := i + 1; j < len(diag); j++ {
			out = append(out, Tile{
				RefStart: diag[i].start, RefLen: diag[i].length,
				QueryStart: diag[j].start, QueryLen: diag[j].length,
			})
		}
	}
	return out
}
