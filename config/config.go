package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

// ErrConfiguration is returned (wrapped) for every invalid configuration value
var ErrConfiguration = common.ErrConfiguration

// MFCCConfig controls feature extraction. It is treated as immutable once
// passed to an extractor.
type MFCCConfig struct {
	SampleRate          int     `json:"sample_rate" yaml:"sample_rate"`
	NumFilters          int     `json:"num_filters" yaml:"num_filters"`
	NumCoefficients     int     `json:"num_coefficients" yaml:"num_coefficients"`
	FFTSize             int     `json:"fft_size" yaml:"fft_size"`
	LowFreq             float64 `json:"low_freq" yaml:"low_freq"`   // Hz
	HighFreq            float64 `json:"high_freq" yaml:"high_freq"` // Hz, at most SampleRate/2
	PreEmphasis         float64 `json:"pre_emphasis" yaml:"pre_emphasis"`
	WindowLengthSeconds float64 `json:"window_length" yaml:"window_length"`
	WindowShiftSeconds  float64 `json:"window_shift" yaml:"window_shift"`

	// Optional post-processing, off by default
	LifterCoeff   float64 `json:"lifter_coeff,omitempty" yaml:"lifter_coeff,omitempty"`
	NormalizeCMVN bool    `json:"cmvn,omitempty" yaml:"cmvn,omitempty"`
}

// DefaultMFCCConfig returns the usual 16 kHz speech front end:
// 26 filters, 13 coefficients, 25 ms windows every 10 ms.
func DefaultMFCCConfig() MFCCConfig {
	return MFCCConfig{
		SampleRate:          16000,
		NumFilters:          26,
		NumCoefficients:     13,
		FFTSize:             512,
		LowFreq:             0.0,
		HighFreq:            8000.0,
		PreEmphasis:         0.97,
		WindowLengthSeconds: 0.025,
		WindowShiftSeconds:  0.01,
	}
}

// FrameLength returns the window length in samples, rounded
func (c MFCCConfig) FrameLength() int {
	return common.RoundToInt(c.WindowLengthSeconds * float64(c.SampleRate))
}

// FrameShift returns the window shift in samples, rounded
func (c MFCCConfig) FrameShift() int {
	return common.RoundToInt(c.WindowShiftSeconds * float64(c.SampleRate))
}

// FrameDuration returns the time between consecutive frame starts
func (c MFCCConfig) FrameDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.FrameShift()) * time.Second / time.Duration(c.SampleRate)
}

// Validate checks every invariant. The returned error wraps ErrConfiguration.
func (c MFCCConfig) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return invalid("sample_rate must be positive, got %d", c.SampleRate)
	case c.NumFilters < 1:
		return invalid("num_filters must be at least 1, got %d", c.NumFilters)
	case c.NumCoefficients < 1:
		return invalid("num_coefficients must be at least 1, got %d", c.NumCoefficients)
	case c.FFTSize < 1:
		return invalid("fft_size must be at least 1, got %d", c.FFTSize)
	case c.LowFreq < 0:
		return invalid("low_freq must not be negative, got %g", c.LowFreq)
	case c.LowFreq >= c.HighFreq:
		return invalid("low_freq (%g) must be below high_freq (%g)", c.LowFreq, c.HighFreq)
	case c.HighFreq > float64(c.SampleRate)/2.0:
		return invalid("high_freq (%g) exceeds Nyquist (%g)", c.HighFreq, float64(c.SampleRate)/2.0)
	case c.PreEmphasis < 0 || c.PreEmphasis >= 1:
		return invalid("pre_emphasis must be in [0, 1), got %g", c.PreEmphasis)
	case c.WindowLengthSeconds <= 0:
		return invalid("window_length must be positive, got %g", c.WindowLengthSeconds)
	case c.WindowShiftSeconds <= 0:
		return invalid("window_shift must be positive, got %g", c.WindowShiftSeconds)
	case c.FrameLength() < 1:
		return invalid("window_length %gs is shorter than one sample at %d Hz", c.WindowLengthSeconds, c.SampleRate)
	case c.FrameShift() < 1:
		return invalid("window_shift %gs is shorter than one sample at %d Hz", c.WindowShiftSeconds, c.SampleRate)
	case c.LifterCoeff < 0:
		return invalid("lifter_coeff must not be negative, got %g", c.LifterCoeff)
	}
	return nil
}

// AlignmentConfig controls the DTW stage and the end-to-end aligner.
type AlignmentConfig struct {
	// BandWidth is the band width in frames. Zero means "use BandWidthSeconds",
	// and if that is zero too the band spans the whole reference.
	BandWidth        int     `json:"band_width" yaml:"band_width"`
	BandWidthSeconds float64 `json:"band_width_seconds" yaml:"band_width_seconds"`

	// RejectSilentFrames fails the alignment on zero-energy frames instead of
	// giving them the maximal cosine distance.
	RejectSilentFrames bool `json:"reject_silent_frames" yaml:"reject_silent_frames"`

	TTSEngine string `json:"tts_engine" yaml:"tts_engine"`
	Voice     string `json:"voice,omitempty" yaml:"voice,omitempty"`

	FFmpegPath  string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path" yaml:"ffprobe_path"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultAlignmentConfig returns an unlimited band, espeak-ng synthesis and
// ffmpeg tools from PATH.
func DefaultAlignmentConfig() AlignmentConfig {
	return AlignmentConfig{
		TTSEngine:   "espeak-ng",
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Timeout:     60 * time.Second,
	}
}

// BandFrames resolves the configured band width in frames for the given
// frame shift. Zero means unlimited.
func (c AlignmentConfig) BandFrames(frameDuration time.Duration) int {
	if c.BandWidth > 0 {
		return c.BandWidth
	}
	if c.BandWidthSeconds > 0 && frameDuration > 0 {
		return max(1, common.RoundToInt(c.BandWidthSeconds/frameDuration.Seconds()))
	}
	return 0
}

// Validate checks the alignment settings
func (c AlignmentConfig) Validate() error {
	switch {
	case c.BandWidth < 0:
		return invalid("band_width must not be negative, got %d", c.BandWidth)
	case c.BandWidthSeconds < 0:
		return invalid("band_width_seconds must not be negative, got %g", c.BandWidthSeconds)
	case c.Timeout < 0:
		return invalid("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

// Config is the top-level configuration file layout
type Config struct {
	MFCC      MFCCConfig      `json:"mfcc" yaml:"mfcc"`
	Alignment AlignmentConfig `json:"alignment" yaml:"alignment"`
	LogLevel  string          `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		MFCC:      DefaultMFCCConfig(),
		Alignment: DefaultAlignmentConfig(),
		LogLevel:  "info",
	}
}

// Validate validates both sections
func (c Config) Validate() error {
	if err := c.MFCC.Validate(); err != nil {
		return fmt.Errorf("mfcc: %w", err)
	}
	if err := c.Alignment.Validate(); err != nil {
		return fmt.Errorf("alignment: %w", err)
	}
	return nil
}

// Load reads a YAML or JSON configuration file. Fields absent from the file,
// or set to their zero value, take the defaults. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration bytes. ext selects the format (".json",
// ".yaml", ".yml"); anything else tries YAML, then JSON.
func Parse(data []byte, ext string) (Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse JSON: %v: %w", err, ErrConfiguration)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %v: %w", err, ErrConfiguration)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			cfg = Config{}
			if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
				return Config{}, fmt.Errorf("failed to parse config (tried YAML and JSON): %v: %w", jsonErr, ErrConfiguration)
			}
		}
	}

	cfg = cfg.withDefaults(Default())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults fills every zero-valued field from d. Booleans are left as
// decoded since their default is false.
func (c Config) withDefaults(d Config) Config {
	m, dm := &c.MFCC, d.MFCC
	setInt(&m.SampleRate, dm.SampleRate)
	setInt(&m.NumFilters, dm.NumFilters)
	setInt(&m.NumCoefficients, dm.NumCoefficients)
	setInt(&m.FFTSize, dm.FFTSize)
	setFloat(&m.LowFreq, dm.LowFreq)
	setFloat(&m.PreEmphasis, dm.PreEmphasis)
	setFloat(&m.WindowLengthSeconds, dm.WindowLengthSeconds)
	setFloat(&m.WindowShiftSeconds, dm.WindowShiftSeconds)
	setFloat(&m.LifterCoeff, dm.LifterCoeff)
	if m.HighFreq == 0 {
		// Track a non-default sample rate rather than the 16 kHz default
		m.HighFreq = float64(m.SampleRate) / 2.0
	}

	a, da := &c.Alignment, d.Alignment
	setString(&a.TTSEngine, da.TTSEngine)
	setString(&a.Voice, da.Voice)
	setString(&a.FFmpegPath, da.FFmpegPath)
	setString(&a.FFprobePath, da.FFprobePath)
	if a.Timeout == 0 {
		a.Timeout = da.Timeout
	}

	setString(&c.LogLevel, d.LogLevel)
	return c
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setFloat(dst *float64, def float64) {
	if *dst == 0 {
		*dst = def
	}
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfiguration)...)
}
