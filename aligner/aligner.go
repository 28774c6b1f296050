// Package aligner ties the pipeline together: it synthesizes reference
// speech for a transcript, decodes both recordings, extracts MFCC features
// and aligns them with banded DTW.
//
// The recording is always the first DTW sequence and the reference the
// second, so Path cells read (recorded frame, reference frame).
package aligner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/config"
	"github.com/RyanBlaney/sonido-align/dtw"
	"github.com/RyanBlaney/sonido-align/features"
	"github.com/RyanBlaney/sonido-align/logging"
	"github.com/RyanBlaney/sonido-align/transcode"
	"github.com/RyanBlaney/sonido-align/tts"
)

// TimePair maps a reference timestamp to the matching recording timestamp
type TimePair struct {
	Synthesized time.Duration `json:"synthesized"`
	Recorded    time.Duration `json:"recorded"`
}

// Alignment is the outcome of one end-to-end alignment
type Alignment struct {
	Path            []dtw.Cell    `json:"path"`
	Cost            float64       `json:"cost"`
	Quality         dtw.Quality   `json:"quality"`
	Mapping         []TimePair    `json:"mapping"`
	FrameDuration   time.Duration `json:"frame_duration"`
	RecordedFrames  int           `json:"recorded_frames"`
	ReferenceFrames int           `json:"reference_frames"`
	BandWidth       int           `json:"band_width"`
}

// Decoder turns an audio file into mono samples at a fixed rate
type Decoder interface {
	DecodeFile(ctx context.Context, filename string) (*transcode.AudioData, error)
}

// Aligner runs the end-to-end pipeline for one configuration
type Aligner struct {
	cfg       config.Config
	extractor *features.Extractor
	dtw       *dtw.Aligner
	decoder   Decoder
	registry  *tts.Registry
	observer  logging.Observer
	logger    logging.Logger
}

// Option customizes an Aligner
type Option func(*Aligner)

// WithRegistry replaces the TTS engines
func WithRegistry(r *tts.Registry) Option {
	return func(a *Aligner) { a.registry = r }
}

// WithDecoder replaces the ffmpeg decoder
func WithDecoder(d Decoder) Option {
	return func(a *Aligner) { a.decoder = d }
}

// WithObserver reports stage timings of every pipeline step to o
func WithObserver(o logging.Observer) Option {
	return func(a *Aligner) { a.observer = o }
}

// New validates cfg and builds the pipeline
func New(cfg config.Config, opts ...Option) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := features.NewExtractor(cfg.MFCC)
	if err != nil {
		return nil, err
	}

	a := &Aligner{
		cfg:      cfg,
		observer: logging.NopObserver{},
		logger: logging.WithFields(logging.Fields{
			"component": "aligner",
		}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.registry == nil {
		a.registry = tts.NewRegistry()
		a.registry.Register(&tts.EspeakNG{Path: "espeak-ng", Voice: cfg.Alignment.Voice})
	}
	if a.decoder == nil {
		dc := transcode.DefaultDecoderConfig()
		dc.TargetSampleRate = cfg.MFCC.SampleRate
		dc.FFmpegPath = cfg.Alignment.FFmpegPath
		dc.FFprobePath = cfg.Alignment.FFprobePath
		dc.Timeout = cfg.Alignment.Timeout
		a.decoder = transcode.NewDecoder(dc)
	}

	a.extractor = extractor.WithObserver(a.observer)
	a.dtw = dtw.NewAlignerWithOptions(dtw.Options{
		RejectSilentFrames: cfg.Alignment.RejectSilentFrames,
		Observer:           a.observer,
	})

	return a, nil
}

// Config returns the configuration the aligner was built with
func (a *Aligner) Config() config.Config {
	return a.cfg
}

// AlignText synthesizes text with the configured engine and aligns the
// recording at recordingPath against it
func (a *Aligner) AlignText(ctx context.Context, recordingPath, text string) (*Alignment, error) {
	dir, err := os.MkdirTemp("", "sonido-align-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	referencePath := filepath.Join(dir, "reference.wav")

	synthCtx := ctx
	if a.cfg.Alignment.Timeout > 0 {
		var cancel context.CancelFunc
		synthCtx, cancel = context.WithTimeout(ctx, a.cfg.Alignment.Timeout)
		defer cancel()
	}

	timer := logging.StartStage(a.observer, "synthesize")
	if err := a.registry.Synthesize(synthCtx, a.cfg.Alignment.TTSEngine, text, referencePath); err != nil {
		return nil, fmt.Errorf("synthesize reference: %w", err)
	}
	timer.Done(logging.Fields{"engine": a.cfg.Alignment.TTSEngine})

	return a.AlignFiles(ctx, recordingPath, referencePath)
}

// AlignFiles decodes both files at the configured sample rate and aligns them
func (a *Aligner) AlignFiles(ctx context.Context, recordingPath, referencePath string) (*Alignment, error) {
	timer := logging.StartStage(a.observer, "decode")

	var (
		wg             sync.WaitGroup
		recorded, ref  *transcode.AudioData
		recErr, refErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		recorded, recErr = a.decoder.DecodeFile(ctx, recordingPath)
	}()
	go func() {
		defer wg.Done()
		ref, refErr = a.decoder.DecodeFile(ctx, referencePath)
	}()
	wg.Wait()

	if recErr != nil {
		return nil, fmt.Errorf("decode recording: %w", recErr)
	}
	if refErr != nil {
		return nil, fmt.Errorf("decode reference: %w", refErr)
	}
	timer.Done(logging.Fields{
		"recorded_samples":  len(recorded.PCM),
		"reference_samples": len(ref.PCM),
	})

	return a.AlignSamples(ctx, recorded.PCM, ref.PCM)
}

// AlignSamples aligns two decoded mono signals sampled at MFCC.SampleRate
func (a *Aligner) AlignSamples(ctx context.Context, recorded, reference []float64) (*Alignment, error) {
	f1, f2, err := a.extractor.ExtractPair(ctx, recorded, reference)
	if err != nil {
		return nil, err
	}
	return a.AlignFeatures(ctx, f1, f2)
}

// AlignFeatures aligns two feature matrices produced with this aligner's
// MFCC configuration
func (a *Aligner) AlignFeatures(ctx context.Context, recorded, reference mat.Matrix) (*Alignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, m := reference.Dims()
	frameDuration := a.cfg.MFCC.FrameDuration()

	width := a.cfg.Alignment.BandFrames(frameDuration)
	if width == 0 {
		width = m
	}

	result, err := a.dtw.Align(recorded, reference, width)
	if err != nil {
		return nil, err
	}

	alignment := &Alignment{
		Path:            result.Path,
		Cost:            result.Cost,
		Quality:         result.Quality(),
		Mapping:         TimeMapping(result.Path, frameDuration),
		FrameDuration:   frameDuration,
		RecordedFrames:  result.QueryLength,
		ReferenceFrames: result.RefLength,
		BandWidth:       result.Band.Width,
	}

	a.logger.Info("Alignment complete", logging.Fields{
		"recorded_frames":  alignment.RecordedFrames,
		"reference_frames": alignment.ReferenceFrames,
		"band_width":       alignment.BandWidth,
		"cost":             alignment.Cost,
		"diagonal_ratio":   alignment.Quality.DiagonalRatio,
	})

	return alignment, nil
}

// TimeMapping converts a path into one TimePair per reference frame, using
// the first recording frame the path pairs with it
func TimeMapping(path []dtw.Cell, frameDuration time.Duration) []TimePair {
	var mapping []TimePair
	last := -1
	for _, c := range path {
		if c.J == last {
			continue
		}
		last = c.J
		mapping = append(mapping, TimePair{
			Synthesized: time.Duration(c.J) * frameDuration,
			Recorded:    time.Duration(c.I) * frameDuration,
		})
	}
	return mapping
}
