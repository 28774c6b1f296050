package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
	"github.com/RyanBlaney/sonido-align/algorithms/windowing"
)

// Framer slices a (pre-emphasized) signal into overlapping Hamming-tapered
// frames of fixed length.
//
// The frame count is ceil(len(signal)/shift), one frame per shift position
// that starts inside the signal. Trailing frames that run past the end are
// zero-padded before tapering, so the last few frames may be mostly padding.
type Framer struct {
	frameLength int
	frameShift  int
	window      *windowing.Hamming
}

// NewFramer creates a framer for the given frame length and shift in samples.
func NewFramer(frameLength, frameShift int) (*Framer, error) {
	if frameLength <= 0 {
		return nil, fmt.Errorf("frame length must be positive, got %d: %w", frameLength, common.ErrConfiguration)
	}
	if frameShift <= 0 {
		return nil, fmt.Errorf("frame shift must be positive, got %d: %w", frameShift, common.ErrConfiguration)
	}

	return &Framer{
		frameLength: frameLength,
		frameShift:  frameShift,
		window:      windowing.NewHamming(frameLength, true),
	}, nil
}

// FrameCount returns the number of frames produced for a signal of n samples
func (f *Framer) FrameCount(n int) int {
	return common.CeilDiv(n, f.frameShift)
}

// Frame returns frame i of signal: samples [i*shift, i*shift+length),
// zero-padded past the end of the signal, then tapered.
func (f *Framer) Frame(signal []float64, i int) []float64 {
	frame := make([]float64, f.frameLength)

	start := i * f.frameShift
	if start < len(signal) {
		end := min(start+f.frameLength, len(signal))
		copy(frame, signal[start:end])
	}

	// Length always matches the window, so this cannot fail
	_ = f.window.ApplyInPlace(frame)
	return frame
}

// Frames slices the whole signal. An empty signal yields no frames.
func (f *Framer) Frames(signal []float64) [][]float64 {
	count := f.FrameCount(len(signal))
	frames := make([][]float64, count)
	for i := range count {
		frames[i] = f.Frame(signal, i)
	}
	return frames
}

// FrameLength returns the frame length in samples
func (f *Framer) FrameLength() int {
	return f.frameLength
}

// FrameShift returns the frame shift in samples
func (f *Framer) FrameShift() int {
	return f.frameShift
}
