// Package features turns mono sample sequences into MFCC feature matrices.
//
// A feature matrix is a *mat.Dense shaped coefficients (rows) x frames
// (columns). Matrices returned by this package are owned by the caller and
// are not modified afterwards; the dtw package only reads them.
package features

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
	"github.com/RyanBlaney/sonido-align/algorithms/filters"
	"github.com/RyanBlaney/sonido-align/algorithms/spectral"
	"github.com/RyanBlaney/sonido-align/config"
	"github.com/RyanBlaney/sonido-align/logging"
)

// ErrEmptySignal is returned for a signal with no samples: it has no frames,
// and a matrix cannot have zero columns.
var ErrEmptySignal = errors.New("empty signal")

// Extractor runs the MFCC pipeline for one configuration:
// pre-emphasis, framing and Hamming taper, power spectrum, mel filter bank,
// log, DCT. The filter bank is built once in NewExtractor.
//
// An Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	cfg      config.MFCCConfig
	framer   *spectral.Framer
	power    *spectral.PowerSpectrum
	mfcc     *spectral.MFCC
	logger   logging.Logger
	observer logging.Observer
}

// NewExtractor validates cfg and prepares the pipeline
func NewExtractor(cfg config.MFCCConfig) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	framer, err := spectral.NewFramer(cfg.FrameLength(), cfg.FrameShift())
	if err != nil {
		return nil, err
	}

	power, err := spectral.NewPowerSpectrum(cfg.FFTSize)
	if err != nil {
		return nil, err
	}

	mfcc, err := spectral.NewMFCC(spectral.MFCCParams{
		SampleRate:      cfg.SampleRate,
		FFTSize:         cfg.FFTSize,
		NumCoefficients: cfg.NumCoefficients,
		NumMelFilters:   cfg.NumFilters,
		LowFreq:         cfg.LowFreq,
		HighFreq:        cfg.HighFreq,
		LifterCoeff:     cfg.LifterCoeff,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "mfcc_extractor",
	})
	if frameLength := cfg.FrameLength(); cfg.FFTSize < frameLength {
		logger.Warn("FFT size is shorter than the frame; frames will be truncated", logging.Fields{
			"fft_size":     cfg.FFTSize,
			"frame_length": frameLength,
			"suggested":    common.NextPowerOfTwo(frameLength),
		})
	}
	if !common.IsPowerOfTwo(cfg.FFTSize) {
		logger.Debug("FFT size is not a power of two", logging.Fields{"fft_size": cfg.FFTSize})
	}

	return &Extractor{
		cfg:      cfg,
		framer:   framer,
		power:    power,
		mfcc:     mfcc,
		logger:   logger,
		observer: logging.NopObserver{},
	}, nil
}

// WithObserver returns a copy of the extractor reporting stage timings to o
func (e *Extractor) WithObserver(o logging.Observer) *Extractor {
	clone := *e
	if o == nil {
		o = logging.NopObserver{}
	}
	clone.observer = o
	return &clone
}

// Config returns the configuration the extractor was built with
func (e *Extractor) Config() config.MFCCConfig {
	return e.cfg
}

// Extract computes the feature matrix of samples:
// NumCoefficients rows, ceil(len(samples)/FrameShift) columns.
func (e *Extractor) Extract(samples []float64) (*mat.Dense, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySignal
	}

	timer := logging.StartStage(e.observer, "extract_features")

	emphasized := filters.ApplyPreEmphasis(samples, e.cfg.PreEmphasis)
	numFrames := e.framer.FrameCount(len(emphasized))
	features := mat.NewDense(e.cfg.NumCoefficients, numFrames, nil)

	for t := range numFrames {
		frame := e.framer.Frame(emphasized, t)
		coeffs, err := e.mfcc.Compute(e.power.Compute(frame))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
		features.SetCol(t, coeffs)
	}

	if e.cfg.NormalizeCMVN {
		common.StandardizeRows(features)
	}

	timer.Done(logging.Fields{"samples": len(samples), "frames": numFrames})
	e.logger.Debug("Extracted MFCC features", logging.Fields{
		"samples":      len(samples),
		"frames":       numFrames,
		"coefficients": e.cfg.NumCoefficients,
	})

	return features, nil
}

// ExtractPair extracts two independent signals concurrently. Either failure
// fails the pair; no partial result is returned.
func (e *Extractor) ExtractPair(ctx context.Context, first, second []float64) (*mat.Dense, *mat.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		wg         sync.WaitGroup
		f1, f2     *mat.Dense
		err1, err2 error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		f1, err1 = e.Extract(first)
	}()
	go func() {
		defer wg.Done()
		f2, err2 = e.Extract(second)
	}()
	wg.Wait()

	if err1 != nil {
		return nil, nil, fmt.Errorf("first signal: %w", err1)
	}
	if err2 != nil {
		return nil, nil, fmt.Errorf("second signal: %w", err2)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return f1, f2, nil
}

// Extract is a convenience wrapper building a one-off Extractor
func Extract(samples []float64, cfg config.MFCCConfig) (*mat.Dense, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return e.Extract(samples)
}
