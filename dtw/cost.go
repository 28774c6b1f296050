package dtw

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/algorithms/stats"
)

// buildCostMatrix computes the banded cosine-distance matrix. Entry (i, k)
// is the distance between frame i of f1 and frame band.LeftEdges[i]+k of f2.
// Band cells past the last frame of f2 hold +Inf.
func buildCostMatrix(f1, f2 mat.Matrix, band Band, rejectSilent bool) (*mat.Dense, error) {
	_, n := f1.Dims()
	_, m := f2.Dims()

	norms1 := stats.ColumnNorms(f1)
	norms2 := stats.ColumnNorms(f2)

	if rejectSilent {
		if err := checkSilent("first", norms1); err != nil {
			return nil, err
		}
		if err := checkSilent("second", norms2); err != nil {
			return nil, err
		}
	}

	cols1 := stats.Columns(f1)
	cols2 := stats.Columns(f2)

	cost := mat.NewDense(n, band.Width, nil)
	inf := math.Inf(1)

	for i := range n {
		row := cost.RawRowView(i)
		left := band.LeftEdges[i]
		right := band.RightEdge(i, m)

		for j := left; j < right; j++ {
			dot := floats.Dot(cols1[i], cols2[j])
			row[j-left] = stats.CosineDistanceFromNorms(dot, norms1[i], norms2[j])
		}
		for k := right - left; k < band.Width; k++ {
			row[k] = inf
		}
	}

	return cost, nil
}

func checkSilent(source string, norms []float64) error {
	for t, norm := range norms {
		if stats.IsSilent(norm) {
			return fmt.Errorf("%s sequence frame %d has zero energy: %w", source, t, ErrDegenerateSignal)
		}
	}
	return nil
}
