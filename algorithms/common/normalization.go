package common

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ZScore normalizes signal to zero mean and unit variance.
// Constant signals are only mean-centered.
func ZScore(signal []float64) []float64 {
	if len(signal) == 0 {
		return signal
	}

	mean, std := stat.MeanStdDev(signal, nil)
	if len(signal) < 2 || std < 1e-10 {
		std = 1.0
	}

	normalized := make([]float64, len(signal))
	for i, val := range signal {
		normalized[i] = (val - mean) / std
	}

	return normalized
}

// StandardizeRows applies ZScore to every row of m in place. For a feature
// matrix laid out coefficients x frames this is cepstral mean and variance
// normalization.
func StandardizeRows(m *mat.Dense) {
	rows, _ := m.Dims()
	for r := 0; r < rows; r++ {
		row := m.RawRowView(r)
		copy(row, ZScore(row))
	}
}
