package dtw

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-align/logging"
)

// Result holds a banded DTW alignment
type Result struct {
	// Path runs from (0,0) to (N-1,M-1) in unit steps
	Path []Cell `json:"path"`

	// Cost is the accumulated cost at the terminal cell
	Cost float64 `json:"cost"`

	// Band is the band actually used, after clamping the width to M
	Band Band `json:"-"`

	QueryLength int `json:"query_length"`
	RefLength   int `json:"ref_length"`
}

// Options configures an Aligner
type Options struct {
	// RejectSilentFrames fails the alignment with ErrDegenerateSignal
	// instead of substituting MaxCosineDistance for zero-energy frames
	RejectSilentFrames bool

	// Observer receives per-stage timings. Nil disables reporting.
	Observer logging.Observer
}

// Aligner runs banded DTW. It holds no per-alignment state and is safe for
// concurrent use.
type Aligner struct {
	opts   Options
	logger logging.Logger
}

// NewAligner creates an aligner with default options
func NewAligner() *Aligner {
	return NewAlignerWithOptions(Options{})
}

// NewAlignerWithOptions creates an aligner with custom options
func NewAlignerWithOptions(opts Options) *Aligner {
	if opts.Observer == nil {
		opts.Observer = logging.NopObserver{}
	}
	return &Aligner{
		opts: opts,
		logger: logging.WithFields(logging.Fields{
			"component": "banded_dtw",
		}),
	}
}

// Align is a convenience wrapper returning only the path
func Align(f1, f2 mat.Matrix, bandWidth int) ([]Cell, error) {
	result, err := NewAligner().Align(f1, f2, bandWidth)
	if err != nil {
		return nil, err
	}
	return result.Path, nil
}

// Align computes the minimal-cost monotone path between the frames of f1
// and f2, both laid out coefficients x frames. bandWidth is clamped to the
// number of frames in f2.
func (a *Aligner) Align(f1, f2 mat.Matrix, bandWidth int) (*Result, error) {
	l1, n := f1.Dims()
	l2, m := f2.Dims()

	if n == 0 || m == 0 {
		return nil, fmt.Errorf("%d x %d frames: %w", n, m, ErrEmptyInput)
	}
	if l1 != l2 {
		return nil, fmt.Errorf("coefficient counts differ (%d vs %d): %w", l1, l2, ErrShapeMismatch)
	}
	if bandWidth < 1 {
		return nil, fmt.Errorf("band width must be at least 1, got %d: %w", bandWidth, ErrConfiguration)
	}

	width := min(bandWidth, m)
	band := NewBand(n, m, width)
	if err := checkBand(band, m); err != nil {
		return nil, err
	}

	timer := logging.StartStage(a.opts.Observer, "cost_matrix")
	acc, err := buildCostMatrix(f1, f2, band, a.opts.RejectSilentFrames)
	if err != nil {
		return nil, err
	}
	timer.Done(logging.Fields{"rows": n, "width": width})

	timer = logging.StartStage(a.opts.Observer, "accumulate")
	accumulate(acc, band)
	timer.Done(nil)

	cost := acc.At(n-1, m-1-band.LeftEdges[n-1])
	if math.IsInf(cost, 1) {
		return nil, fmt.Errorf("terminal cell unreachable: %w", ErrBandTooNarrow)
	}

	timer = logging.StartStage(a.opts.Observer, "backtrack")
	path, err := backtrack(acc, band, m)
	if err != nil {
		return nil, err
	}
	timer.Done(logging.Fields{"path_length": len(path)})

	a.logger.Debug("Banded DTW alignment complete", logging.Fields{
		"query_frames": n,
		"ref_frames":   m,
		"band_width":   width,
		"path_length":  len(path),
		"cost":         cost,
	})

	return &Result{
		Path:        path,
		Cost:        cost,
		Band:        band,
		QueryLength: n,
		RefLength:   m,
	}, nil
}

// checkBand rejects bands whose last row misses column m-1 or whose left
// edge jumps by more than the width between two rows. Any other band
// connects (0,0) to (N-1,M-1).
func checkBand(band Band, m int) error {
	if !band.Reaches(m) {
		last := band.LeftEdges[band.Rows()-1]
		return fmt.Errorf("last row covers columns [%d, %d), terminal column is %d: %w",
			last, last+band.Width, m-1, ErrBandTooNarrow)
	}
	for i := 1; i < band.Rows(); i++ {
		if band.Offset(i) > band.Width {
			return fmt.Errorf("rows %d and %d do not overlap (shift %d, width %d): %w",
				i-1, i, band.Offset(i), band.Width, ErrBandTooNarrow)
		}
	}
	return nil
}
