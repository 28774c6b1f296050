package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps mjibson/go-dsp for real-input transforms
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex spectrum of a real signal.
// go-dsp handles non-power-of-two sizes with Bluestein's algorithm.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}
