package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

const (
	// MaxCosineDistance is the substitute distance for a zero-energy vector:
	// the distance of two orthogonal vectors. Silence is treated as unrelated
	// to everything, including other silence, so it neither attracts nor
	// repels the alignment path.
	MaxCosineDistance = 1.0

	// ZeroNormThreshold is the L2 norm below which a vector counts as silent
	ZeroNormThreshold = 1e-12
)

// CosineDistanceFunc calculates cosine distance (1 - cosine similarity).
// Zero-norm inputs yield MaxCosineDistance.
func CosineDistanceFunc(a, b []float64) float64 {
	return CosineDistanceFromNorms(floats.Dot(a, b), floats.Norm(a, 2), floats.Norm(b, 2))
}

// CosineDistanceFromNorms computes 1 - dot/(normA*normB) with precomputed
// norms. The result is clamped to [0, 2] so round-off on identical vectors
// never produces a negative cost. Zero norms yield MaxCosineDistance.
func CosineDistanceFromNorms(dot, normA, normB float64) float64 {
	if IsSilent(normA) || IsSilent(normB) {
		return MaxCosineDistance
	}

	return common.Clamp(1.0-dot/(normA*normB), 0.0, 2.0)
}

// IsSilent reports whether a vector norm is too small for a defined cosine
func IsSilent(norm float64) bool {
	return norm < ZeroNormThreshold
}

// CosineSimilarityFunc calculates cosine similarity between two vectors
func CosineSimilarityFunc(a, b []float64) float64 {
	return 1.0 - CosineDistanceFunc(a, b)
}

// ColumnNorms returns the L2 norm of every column of m
func ColumnNorms(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	norms := make([]float64, cols)
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, m)
		norms[j] = floats.Norm(col, 2)
	}
	return norms
}

// Columns copies every column of m into its own slice
func Columns(m mat.Matrix) [][]float64 {
	_, cols := m.Dims()
	out := make([][]float64, cols)
	for j := range cols {
		out[j] = mat.Col(nil, j, m)
	}
	return out
}
