package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0.0},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 0.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 1.0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, 2.0},
		{"silent left", []float64{0, 0}, []float64{0, 1}, MaxCosineDistance},
		{"both silent", []float64{0, 0}, []float64{0, 0}, MaxCosineDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineDistanceFunc(tt.a, tt.b), 1e-12)
		})
	}
}

func TestCosineDistanceNeverNegative(t *testing.T) {
	v := []float64{0.1, 0.7, -0.3, 1e3, 1e-3}
	for i := 0; i < 10; i++ {
		assert.GreaterOrEqual(t, CosineDistanceFunc(v, v), 0.0)
		v[0] *= 3.1
	}
}

func TestColumnNorms(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		3, 0, 1,
		4, 0, 1,
	})

	norms := ColumnNorms(m)
	require.Len(t, norms, 3)
	assert.InDelta(t, 5.0, norms[0], 1e-12)
	assert.Equal(t, 0.0, norms[1])
	assert.True(t, IsSilent(norms[1]))
	assert.InDelta(t, 1.4142135623730951, norms[2], 1e-12)

	cols := Columns(m)
	assert.Equal(t, []float64{3, 4}, cols[0])
}
