package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

// FromRows builds a feature matrix from host data laid out
// coefficients x frames: rows[c][t] is coefficient c of frame t.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptySignal
	}

	cols := len(rows[0])
	m := mat.NewDense(len(rows), cols, nil)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d frames, row 0 has %d: %w", r, len(row), cols, common.ErrShapeMismatch)
		}
		m.SetRow(r, row)
	}
	return m, nil
}

// FromFrames builds a feature matrix from per-frame coefficient vectors:
// frames[t][c] is coefficient c of frame t.
func FromFrames(frames [][]float64) (*mat.Dense, error) {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return nil, ErrEmptySignal
	}

	dim := len(frames[0])
	m := mat.NewDense(dim, len(frames), nil)
	for t, frame := range frames {
		if len(frame) != dim {
			return nil, fmt.Errorf("frame %d has %d coefficients, frame 0 has %d: %w", t, len(frame), dim, common.ErrShapeMismatch)
		}
		m.SetCol(t, frame)
	}
	return m, nil
}

// ToFrames copies a feature matrix back into per-frame vectors
func ToFrames(m mat.Matrix) [][]float64 {
	_, cols := m.Dims()
	frames := make([][]float64, cols)
	for t := range cols {
		frames[t] = mat.Col(nil, t, m)
	}
	return frames
}
