package windowing

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hamming represents a Hamming window function
//
//	w[n] = 0.54 - 0.46*cos(2πn/D)
//
// where D is size-1 for the symmetric form used by speech front ends and
// size for the periodic form used by overlap-add spectral processing.
type Hamming struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hamming) generate() {
	h.coefficients = make([]float64, h.size)

	// A one-point symmetric window would divide by zero
	if h.size == 1 {
		h.coefficients[0] = 1.0
		return
	}

	denominator := float64(h.size)
	if h.symmetric {
		denominator = float64(h.size - 1)
	}

	for i := range h.size {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
	}
}

// Apply applies the window to a signal (creates new array)
func (h *Hamming) Apply(signal []float64) ([]float64, error) {
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	if err := h.ApplyInPlace(windowed); err != nil {
		return nil, err
	}
	return windowed, nil
}

// ApplyInPlace applies the window to a signal in-place
func (h *Hamming) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	vecmath.MulBlockInPlace(signal, h.coefficients)
	return nil
}

// Coefficients returns a copy of the window coefficients
func (h *Hamming) Coefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// Size returns the window size
func (h *Hamming) Size() int {
	return h.size
}
