package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

// PowerSpectrum computes the one-sided power spectrum |X[k]|² for
// k = 0..fftSize/2 of a frame zero-padded to fftSize.
type PowerSpectrum struct {
	fftSize int
	fft     *FFT
}

// NewPowerSpectrum creates a power spectrum calculator for a fixed FFT size
func NewPowerSpectrum(fftSize int) (*PowerSpectrum, error) {
	if fftSize <= 0 {
		return nil, fmt.Errorf("invalid FFT size %d: %w", fftSize, common.ErrConfiguration)
	}
	return &PowerSpectrum{fftSize: fftSize, fft: NewFFT()}, nil
}

// Bins returns the length of the one-sided spectrum, fftSize/2+1
func (ps *PowerSpectrum) Bins() int {
	return ps.fftSize/2 + 1
}

// Compute returns the one-sided power spectrum of frame. Frames shorter than
// the FFT size are zero-padded; longer frames are truncated to it.
func (ps *PowerSpectrum) Compute(frame []float64) []float64 {
	padded := make([]float64, ps.fftSize)
	copy(padded, frame)

	spectrum := ps.fft.Compute(padded)

	bins := ps.Bins()
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)
	return power
}

// ComputeFrames processes multiple frames
func (ps *PowerSpectrum) ComputeFrames(frames [][]float64) [][]float64 {
	power := make([][]float64, len(frames))
	for t, frame := range frames {
		power[t] = ps.Compute(frame)
	}
	return power
}
