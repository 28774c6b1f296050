package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPreEmphasis(t *testing.T) {
	signal := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	want := []float64{
		1.0,
		2.0 - 0.97*1.0,
		3.0 - 0.97*2.0,
		4.0 - 0.97*3.0,
		5.0 - 0.97*4.0,
	}

	got := ApplyPreEmphasis(signal, 0.97)
	require.Len(t, got, len(signal))
	assert.Equal(t, signal[0], got[0])
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestApplyPreEmphasisEmpty(t *testing.T) {
	got := ApplyPreEmphasis(nil, 0.97)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPreEmphasisStreamsAcrossBuffers(t *testing.T) {
	signal := []float64{0.5, -0.25, 0.75, 1.0, -1.0, 0.0}
	whole := ApplyPreEmphasis(signal, 0.95)

	pe := NewPreEmphasis(0.95)
	split := append(pe.ProcessBuffer(signal[:2]), pe.ProcessBuffer(signal[2:])...)

	assert.InDeltaSlice(t, whole, split, 1e-12)
}

func TestPreEmphasisReset(t *testing.T) {
	pe := NewPreEmphasis(0.97)
	pe.ProcessBuffer([]float64{1, 2, 3})
	pe.Reset()

	assert.Equal(t, 7.0, pe.Process(7.0))
}

func TestSetCoefficient(t *testing.T) {
	pe := NewPreEmphasis(0.97)
	assert.NoError(t, pe.SetCoefficient(0.0))
	assert.Error(t, pe.SetCoefficient(1.0))
	assert.Error(t, pe.SetCoefficient(-0.1))
	assert.Equal(t, 0.0, pe.Coefficient())
}
