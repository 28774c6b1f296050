package filters

import (
	"fmt"
)

// PreEmphasis implements a first-order pre-emphasis filter:
//
//	y[n] = x[n] - α*x[n-1]
//
// It boosts high frequencies before spectral analysis so that the mel
// energies of voiced speech are not dominated by the low-frequency roll-off.
// The filter keeps the previous input sample, so consecutive ProcessBuffer
// calls continue one signal. Call Reset between unrelated signals.
type PreEmphasis struct {
	coefficient float64 // α
	lastSample  float64 // x[n-1]
	primed      bool    // false until the first sample has been seen
}

// DefaultPreEmphasisCoefficient is the usual speech value
const DefaultPreEmphasisCoefficient = 0.97

// NewPreEmphasis creates a pre-emphasis filter with the given coefficient.
func NewPreEmphasis(coefficient float64) *PreEmphasis {
	return &PreEmphasis{coefficient: coefficient}
}

// Process filters a single sample. The first sample after construction or
// Reset passes through unchanged.
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input
	if pe.primed {
		output = input - pe.coefficient*pe.lastSample
	}

	pe.lastSample = input
	pe.primed = true

	return output
}

// ProcessBuffer filters a buffer of samples. The output has the same length
// as the input; an empty input yields an empty, non-nil output.
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// Reset clears the filter's memory of the previous sample.
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0.0
	pe.primed = false
}

// SetCoefficient updates the pre-emphasis coefficient. Zero disables the
// filter; values outside [0, 1) are rejected.
func (pe *PreEmphasis) SetCoefficient(coefficient float64) error {
	if coefficient < 0.0 || coefficient >= 1.0 {
		return fmt.Errorf("coefficient must be in [0, 1), got %f", coefficient)
	}
	pe.coefficient = coefficient
	return nil
}

// Coefficient returns the current coefficient.
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// ApplyPreEmphasis filters a whole signal with a fresh filter state:
// y[0] = x[0], y[t] = x[t] - α*x[t-1].
func ApplyPreEmphasis(signal []float64, coefficient float64) []float64 {
	return NewPreEmphasis(coefficient).ProcessBuffer(signal)
}
