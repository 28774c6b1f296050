package dtw

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Cell is one step of an alignment path: frame I of the first sequence
// corresponds to frame J of the second.
type Cell struct {
	I int `json:"i"`
	J int `json:"j"`
}

// backtrack walks from the terminal cell (n-1, m-1) back to (0, 0),
// following the cheapest predecessor at every step, and returns the path in
// increasing order.
func backtrack(acc *mat.Dense, band Band, m int) ([]Cell, error) {
	n := band.Rows()
	i, j := n-1, m-1

	path := make([]Cell, 0, n+m)
	for i > 0 || j > 0 {
		path = append(path, Cell{I: i, J: j})

		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			local, ok := band.Local(i, j)
			if !ok {
				return nil, fmt.Errorf("path left the band at (%d, %d): %w", i, j, ErrBandTooNarrow)
			}

			up, left, diag := predecessors(acc.RawRowView(i-1), acc.RawRowView(i), local, band.Offset(i))
			if math.IsInf(min3(up, left, diag), 1) {
				return nil, fmt.Errorf("no reachable predecessor for (%d, %d): %w", i, j, ErrBandTooNarrow)
			}

			switch argmin3(up, left, diag) {
			case moveUp:
				i--
			case moveLeft:
				j--
			case moveDiagonal:
				i--
				j--
			}
		}
	}

	path = append(path, Cell{I: 0, J: 0})
	slices.Reverse(path)

	return path, nil
}
