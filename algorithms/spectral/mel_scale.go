package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

// HzToMel converts frequency in Hz to mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelFilterBank is a fixed set of triangular filters over the bins of a
// one-sided power spectrum. Build it once per configuration and share it:
// it is read-only after construction.
type MelFilterBank struct {
	filters [][]float64
	// boundaries[m], boundaries[m+1], boundaries[m+2] are the start, center and
	// end bins of filter m
	boundaries []int
	bins       int
}

// NewMelFilterBank builds numFilters triangular filters whose boundary bins
// come from numFilters+2 points equally spaced on the mel scale between
// lowFreq and highFreq. Filter m rises from 0 at its start bin to 1 at its
// center bin and falls back towards 0 at its end bin; it is zero elsewhere.
//
// Boundaries that collapse onto the same bin (narrow low-frequency bands with
// a small FFT) produce a filter with an empty rising or falling edge, possibly
// all zeros. The MFCC log floor keeps such filters harmless.
func NewMelFilterBank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) (*MelFilterBank, error) {
	if numFilters <= 0 || fftSize <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("filters=%d fft_size=%d sample_rate=%d must be positive: %w",
			numFilters, fftSize, sampleRate, common.ErrConfiguration)
	}
	if lowFreq < 0 || lowFreq >= highFreq || highFreq > float64(sampleRate)/2.0 {
		return nil, fmt.Errorf("frequency range [%g, %g] invalid for sample rate %d: %w",
			lowFreq, highFreq, sampleRate, common.ErrConfiguration)
	}

	lowMel := HzToMel(lowFreq)
	highMel := HzToMel(highFreq)

	bins := fftSize/2 + 1
	binWidth := float64(sampleRate) / float64(fftSize)

	boundaries := make([]int, numFilters+2)
	for i := range boundaries {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
		bin := int(math.Floor(MelToHz(mel) / binWidth))
		boundaries[i] = min(bin, bins-1)
	}

	filters := make([][]float64, numFilters)
	for m := range filters {
		filter := make([]float64, bins)
		start, center, end := boundaries[m], boundaries[m+1], boundaries[m+2]

		for k := start; k < center; k++ {
			filter[k] = float64(k-start) / float64(center-start)
		}
		for k := center; k < end; k++ {
			filter[k] = 1.0 - float64(k-center)/float64(end-center)
		}

		filters[m] = filter
	}

	return &MelFilterBank{filters: filters, boundaries: boundaries, bins: bins}, nil
}

// NumFilters returns the number of filters
func (fb *MelFilterBank) NumFilters() int {
	return len(fb.filters)
}

// Bins returns the spectrum length every filter expects
func (fb *MelFilterBank) Bins() int {
	return fb.bins
}

// Filter returns a copy of filter m
func (fb *MelFilterBank) Filter(m int) []float64 {
	return append([]float64(nil), fb.filters[m]...)
}

// Boundaries returns the start, center and end bins of filter m
func (fb *MelFilterBank) Boundaries(m int) (start, center, end int) {
	return fb.boundaries[m], fb.boundaries[m+1], fb.boundaries[m+2]
}

// Apply returns the mel energies of a power spectrum: the dot product of the
// spectrum with each filter.
func (fb *MelFilterBank) Apply(powerSpectrum []float64) ([]float64, error) {
	if len(powerSpectrum) != fb.bins {
		return nil, fmt.Errorf("power spectrum has %d bins, filters expect %d: %w",
			len(powerSpectrum), fb.bins, common.ErrShapeMismatch)
	}

	energies := make([]float64, len(fb.filters))
	for m, filter := range fb.filters {
		sum := 0.0
		for k, weight := range filter {
			sum += weight * powerSpectrum[k]
		}
		energies[m] = sum
	}

	return energies, nil
}
