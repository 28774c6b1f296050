package spectral

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

func TestMelRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 300, 1000, 4000, 8000} {
		assert.InDelta(t, hz, MelToHz(HzToMel(hz)), 1e-6)
	}
	assert.InDelta(t, 1000.0, HzToMel(1000), 0.5)
}

func TestMelFilterBankShape(t *testing.T) {
	bank, err := NewMelFilterBank(26, 512, 16000, 0, 8000)
	require.NoError(t, err)

	assert.Equal(t, 26, bank.NumFilters())
	assert.Equal(t, 257, bank.Bins())
	for m := range bank.NumFilters() {
		assert.Len(t, bank.Filter(m), 257)
	}
}

func TestMelFilterBankTriangles(t *testing.T) {
	bank, err := NewMelFilterBank(26, 512, 16000, 0, 8000)
	require.NoError(t, err)

	for m := range bank.NumFilters() {
		start, center, end := bank.Boundaries(m)
		filter := bank.Filter(m)
		require.LessOrEqual(t, start, center)
		require.LessOrEqual(t, center, end)

		if center < end {
			assert.Equal(t, 1.0, filter[center], "filter %d should peak at its center bin", m)
		}
		for k, w := range filter {
			if k < start || k >= end {
				assert.Equal(t, 0.0, w, "filter %d bin %d outside [%d,%d)", m, k, start, end)
			}
			assert.LessOrEqual(t, w, 1.0)
			assert.GreaterOrEqual(t, w, 0.0)
		}
	}
}

func TestMelFilterBankDegenerateBands(t *testing.T) {
	// With 40 filters over 16 bins many boundaries coincide
	bank, err := NewMelFilterBank(40, 32, 16000, 0, 8000)
	require.NoError(t, err)

	for m := range bank.NumFilters() {
		for _, w := range bank.Filter(m) {
			assert.False(t, w != w, "filter %d has NaN weight", m)
		}
	}
}

func TestMelFilterBankValidation(t *testing.T) {
	tests := []struct {
		name      string
		filters   int
		fft       int
		rate      int
		low, high float64
	}{
		{"zero filters", 0, 512, 16000, 0, 8000},
		{"zero fft", 26, 0, 16000, 0, 8000},
		{"inverted range", 26, 512, 16000, 4000, 300},
		{"above nyquist", 26, 512, 16000, 0, 9000},
		{"negative low", 26, 512, 16000, -1, 8000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMelFilterBank(tt.filters, tt.fft, tt.rate, tt.low, tt.high)
			assert.True(t, errors.Is(err, common.ErrConfiguration))
		})
	}
}

func TestMelFilterBankApplyShapeMismatch(t *testing.T) {
	bank, err := NewMelFilterBank(26, 512, 16000, 0, 8000)
	require.NoError(t, err)

	_, err = bank.Apply(make([]float64, 256))
	assert.True(t, errors.Is(err, common.ErrShapeMismatch))

	energies, err := bank.Apply(make([]float64, 257))
	require.NoError(t, err)
	assert.Len(t, energies, 26)
}
