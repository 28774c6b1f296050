package dtw

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type move int

const (
	moveUp move = iota
	moveLeft
	moveDiagonal
)

// accumulate turns the banded cost matrix into accumulated minimal costs in
// place. Rows are processed top to bottom and columns left to right: each
// cell depends on the previous row and on the cell to its left.
func accumulate(acc *mat.Dense, band Band) {
	n, _ := acc.Dims()

	// Row 0 can only be entered from the left
	first := acc.RawRowView(0)
	floats.CumSum(first, first)

	for i := 1; i < n; i++ {
		prev := acc.RawRowView(i - 1)
		row := acc.RawRowView(i)
		offset := band.Offset(i)

		for j := range row {
			up, left, diag := predecessors(prev, row, j, offset)
			row[j] += min3(up, left, diag)
		}
	}
}

// predecessors returns the accumulated costs of the three cells that can
// step into band column j of the current row:
//
//	up:       previous row, same global column  (local j+offset)
//	left:     current row, previous global column (local j-1)
//	diagonal: previous row, previous global column (local j+offset-1)
//
// offset is how far the band's left edge moved between the two rows.
// Predecessors outside the band are +Inf.
func predecessors(prev, row []float64, j, offset int) (up, left, diag float64) {
	width := len(row)
	up, left, diag = math.Inf(1), math.Inf(1), math.Inf(1)

	if k := j + offset; k < width {
		up = prev[k]
	}
	if j > 0 {
		left = row[j-1]
	}
	if k := j + offset - 1; k >= 0 && k < width {
		diag = prev[k]
	}

	return up, left, diag
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

// argmin3 picks the cheapest move. Ties prefer up, then left, then diagonal.
func argmin3(up, left, diag float64) move {
	if up <= left && up <= diag {
		return moveUp
	}
	if left <= diag {
		return moveLeft
	}
	return moveDiagonal
}
