package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

// LogFloor is the smallest mel energy passed to the logarithm. Silent frames
// and empty filters are floored here instead of producing -Inf.
const LogFloor = 1e-10

// MFCC computes Mel-Frequency Cepstral Coefficients from power spectra.
// The filter bank and DCT basis are built once in the constructor; Compute
// is safe for concurrent use.
type MFCC struct {
	numCoefficients int
	filterBank      *MelFilterBank
	dctMatrix       [][]float64
	lifterCoeff     float64
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	SampleRate      int     `json:"sample_rate"`
	FFTSize         int     `json:"fft_size"`
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters
	LowFreq         float64 `json:"low_freq"`
	HighFreq        float64 `json:"high_freq"`
	LifterCoeff     float64 `json:"lifter_coeff"` // 0 disables liftering
}

// NewMFCC creates an MFCC computer. All parameters are required; there are
// no silent defaults, so a zero value is reported as a configuration error.
func NewMFCC(params MFCCParams) (*MFCC, error) {
	if params.NumCoefficients <= 0 {
		return nil, fmt.Errorf("num_coefficients must be positive, got %d: %w", params.NumCoefficients, common.ErrConfiguration)
	}
	if params.LifterCoeff < 0 {
		return nil, fmt.Errorf("lifter_coeff must not be negative, got %g: %w", params.LifterCoeff, common.ErrConfiguration)
	}

	bank, err := NewMelFilterBank(params.NumMelFilters, params.FFTSize, params.SampleRate, params.LowFreq, params.HighFreq)
	if err != nil {
		return nil, err
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		filterBank:      bank,
		dctMatrix:       dctMatrix(params.NumCoefficients, params.NumMelFilters),
		lifterCoeff:     params.LifterCoeff,
	}, nil
}

// Compute returns the cepstral coefficients of one power spectrum:
// mel energies, natural log floored at LogFloor, then the DCT-II.
func (mfcc *MFCC) Compute(powerSpectrum []float64) ([]float64, error) {
	energies, err := mfcc.filterBank.Apply(powerSpectrum)
	if err != nil {
		return nil, err
	}

	logEnergies := LogMelEnergies(energies)

	coeffs := make([]float64, mfcc.numCoefficients)
	for c, basis := range mfcc.dctMatrix {
		coeffs[c] = floats.Dot(basis, logEnergies)
	}

	if mfcc.lifterCoeff > 0 {
		mfcc.applyLiftering(coeffs)
	}

	return coeffs, nil
}

// FilterBank returns the mel filter bank in use
func (mfcc *MFCC) FilterBank() *MelFilterBank {
	return mfcc.filterBank
}

// NumCoefficients returns the coefficient count per frame
func (mfcc *MFCC) NumCoefficients() int {
	return mfcc.numCoefficients
}

// applyLiftering applies sinusoidal liftering to enhance higher-order coefficients.
// C0 is left alone.
func (mfcc *MFCC) applyLiftering(coeffs []float64) {
	for i := 1; i < len(coeffs); i++ {
		coeffs[i] *= 1.0 + (mfcc.lifterCoeff/2.0)*math.Sin(math.Pi*float64(i)/mfcc.lifterCoeff)
	}
}

// LogMelEnergies takes the natural log of each energy, floored at LogFloor
func LogMelEnergies(energies []float64) []float64 {
	logs := make([]float64, len(energies))
	for i, e := range energies {
		logs[i] = math.Log(math.Max(e, LogFloor))
	}
	return logs
}

// DCT computes the unnormalized type-II discrete cosine transform
//
//	X[c] = Σ_j x[j]·cos(π·c·(j+0.5)/len(x))   for c in 0..numCoefficients-1
func DCT(x []float64, numCoefficients int) []float64 {
	out := make([]float64, numCoefficients)
	for c, basis := range dctMatrix(numCoefficients, len(x)) {
		out[c] = floats.Dot(basis, x)
	}
	return out
}

func dctMatrix(numCoefficients, n int) [][]float64 {
	m := make([][]float64, numCoefficients)
	for c := range m {
		m[c] = make([]float64, n)
		for j := range n {
			m[c][j] = math.Cos(math.Pi * float64(c) * (float64(j) + 0.5) / float64(n))
		}
	}
	return m
}
