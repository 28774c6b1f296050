package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHammingSymmetricEndpoints(t *testing.T) {
	h := NewHamming(400, true)
	coeffs := h.Coefficients()

	require.Len(t, coeffs, 400)
	assert.InDelta(t, 0.08, coeffs[0], 1e-12)
	assert.InDelta(t, 0.08, coeffs[399], 1e-12)
	for i := 0; i < 200; i++ {
		assert.InDelta(t, coeffs[i], coeffs[399-i], 1e-12)
	}
}

func TestHammingPeriodic(t *testing.T) {
	coeffs := NewHamming(4, false).Coefficients()
	assert.InDeltaSlice(t, []float64{0.08, 0.54, 1.0, 0.54}, coeffs, 1e-12)
}

func TestHammingSinglePoint(t *testing.T) {
	assert.Equal(t, []float64{1.0}, NewHamming(1, true).Coefficients())
}

func TestHammingApply(t *testing.T) {
	h := NewHamming(5, true)
	signal := []float64{1, 1, 1, 1, 1}

	windowed, err := h.Apply(signal)
	require.NoError(t, err)
	assert.InDeltaSlice(t, h.Coefficients(), windowed, 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, signal, "Apply must not modify its input")

	_, err = h.Apply([]float64{1, 2})
	assert.Error(t, err)
}
