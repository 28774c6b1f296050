package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 160, 0},
		{1, 160, 1},
		{160, 160, 1},
		{16000, 160, 100},
		{16010, 160, 101},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CeilDiv(tt.a, tt.b), "CeilDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestRoundToInt(t *testing.T) {
	assert.Equal(t, 400, RoundToInt(0.025*16000))
	assert.Equal(t, 160, RoundToInt(0.01*16000))
	assert.Equal(t, 441, RoundToInt(0.01*44100))
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 512, NextPowerOfTwo(400))
	assert.Equal(t, 512, NextPowerOfTwo(512))
	assert.True(t, IsPowerOfTwo(1024))
	assert.False(t, IsPowerOfTwo(400))
}

func TestZScoreConstant(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, ZScore([]float64{4, 4, 4}))
}

func TestStandardizeRows(t *testing.T) {
	m := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		10, 10, 10, 10,
	})
	StandardizeRows(m)

	assert.InDelta(t, 0.0, Mean(m.RawRowView(0)), 1e-12)
	assert.InDelta(t, 1.0, StandardDeviation(m.RawRowView(0)), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, m.RawRowView(1))
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("fft size 0: %w", ErrConfiguration)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrShapeMismatch))
}
