// Package transcode decodes audio files to mono float64 PCM with ffmpeg.
//
// ffprobe reads the input's stream properties, ffmpeg resamples and downmixes
// to the target rate and writes raw little-endian float64 samples to stdout.
package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
	"github.com/RyanBlaney/sonido-align/logging"
)

var (
	// ErrExternalProcess wraps ffmpeg and ffprobe failures
	ErrExternalProcess = common.ErrExternalProcess

	// ErrNoAudio is returned when the input has no audio stream or decodes
	// to zero samples
	ErrNoAudio = errors.New("no audio decoded")
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64      `json:"-"`
	SampleRate int            `json:"sample_rate"`
	Duration   time.Duration  `json:"duration"`
	Source     string         `json:"source,omitempty"`
	Input      *AudioMetadata `json:"input,omitempty"`
}

// AudioMetadata holds detected audio properties from ffprobe
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
	Bitrate    int     `json:"bitrate"`
	Format     string  `json:"format"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration"`
	ResampleQuality  string        `json:"resample_quality"` // "fast", "medium", "high"
	FFmpegPath       string        `json:"ffmpeg_path"`
	FFprobePath      string        `json:"ffprobe_path"`
	Timeout          time.Duration `json:"timeout"`

	// Normalization options
	EnableNormalization bool    `json:"enable_normalization"`
	NormalizationMethod string  `json:"normalization_method"` // "loudnorm", "dynaudnorm"
	TargetLUFS          float64 `json:"target_lufs"`
	TargetPeak          float64 `json:"target_peak"`
	LoudnessRange       float64 `json:"loudness_range"`
}

// DefaultDecoderConfig returns a 16 kHz speech decoder without normalization
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate:    16000,
		ResampleQuality:     "medium",
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
		Timeout:             60 * time.Second,
		NormalizationMethod: "dynaudnorm",
		TargetLUFS:          -20.0,
		TargetPeak:          -3.0,
		LoudnessRange:       5.0,
	}
}

// Decoder handles audio decoding using FFmpeg
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder; nil selects DefaultDecoderConfig
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// ValidateConfig checks the configured values without running any binary
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d: %w", d.config.TargetSampleRate, common.ErrConfiguration)
	}
	if d.config.FFmpegPath == "" || d.config.FFprobePath == "" {
		return fmt.Errorf("ffmpeg and ffprobe paths are required: %w", common.ErrConfiguration)
	}
	if d.config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v: %w", d.config.Timeout, common.ErrConfiguration)
	}
	return nil
}

// DecodeFile probes and decodes filename to mono PCM at the target rate
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	if err := d.ValidateConfig(); err != nil {
		return nil, err
	}

	metadata, err := d.Probe(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	args := append([]string{"-i", filename}, d.buildFFmpegArgs(metadata)...)
	args = append(args, "pipe:1")

	output, err := d.run(ctx, d.config.FFmpegPath, args, nil)
	if err != nil {
		logger.Error(err, "FFmpeg decode failed")
		return nil, err
	}

	return d.processFFmpegOutput(output, metadata, filename, logger)
}

// DecodeBytes decodes an in-memory audio file piped through ffmpeg's stdin
func (d *Decoder) DecodeBytes(ctx context.Context, data []byte) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeBytes",
		"data_size": len(data),
	})

	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrNoAudio)
	}
	if err := d.ValidateConfig(); err != nil {
		return nil, err
	}

	output, err := d.run(ctx, d.config.FFprobePath, probeArgs("pipe:0"), data)
	if err != nil {
		return nil, err
	}
	metadata, err := parseFFprobeOutput(output)
	if err != nil {
		return nil, err
	}

	args := append([]string{"-i", "pipe:0"}, d.buildFFmpegArgs(metadata)...)
	args = append(args, "pipe:1")

	output, err = d.run(ctx, d.config.FFmpegPath, args, data)
	if err != nil {
		logger.Error(err, "FFmpeg decode failed")
		return nil, err
	}

	return d.processFFmpegOutput(output, metadata, "", logger)
}

// Probe uses ffprobe to read the first audio stream's properties
func (d *Decoder) Probe(ctx context.Context, filename string) (*AudioMetadata, error) {
	output, err := d.run(ctx, d.config.FFprobePath, probeArgs(filename), nil)
	if err != nil {
		return nil, err
	}
	return parseFFprobeOutput(output)
}

func probeArgs(input string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		input,
	}
}

// run executes binary under the configured timeout and returns its stdout
func (d *Decoder) run(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s exited with %d: %s",
				ErrExternalProcess, binary, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: failed to run %s: %v", ErrExternalProcess, binary, err)
	}
	return output, nil
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType     string `json:"codec_type"`
			CodecName     string `json:"codec_name"`
			SampleRate    string `json:"sample_rate"`
			Channels      int    `json:"channels"`
			Duration      string `json:"duration"`
			BitRate       string `json:"bit_rate"`
			CodecLongName string `json:"codec_long_name"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found: %w", ErrNoAudio)
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s: %w", stream.CodecType, ErrNoAudio)
	}

	// ffprobe reports numbers as strings; missing values stay zero
	sampleRate, _ := strconv.Atoi(stream.SampleRate)
	duration, _ := strconv.ParseFloat(stream.Duration, 64)
	bitrate, _ := strconv.Atoi(stream.BitRate)

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
		Bitrate:    bitrate,
		Format:     stream.CodecLongName,
	}, nil
}

// buildFFmpegArgs builds the output arguments: mono f64le at the target rate
func (d *Decoder) buildFFmpegArgs(metadata *AudioMetadata) []string {
	args := []string{
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
	}

	var filters []string
	if metadata != nil && metadata.SampleRate != d.config.TargetSampleRate {
		switch d.config.ResampleQuality {
		case "fast":
			filters = append(filters, "aresample=resampler=soxr:precision=16")
		case "medium":
			filters = append(filters, "aresample=resampler=soxr:precision=20")
		case "high":
			filters = append(filters, "aresample=resampler=soxr:precision=28")
		}
	}

	if d.config.EnableNormalization {
		if f := d.buildNormalizationFilter(); f != "" {
			filters = append(filters, f)
		}
	}

	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	return append(args, "-v", "error")
}

// buildNormalizationFilter returns the ffmpeg filter for the configured method
func (d *Decoder) buildNormalizationFilter() string {
	switch d.config.NormalizationMethod {
	case "loudnorm":
		// EBU R128 loudness normalization
		return fmt.Sprintf("loudnorm=I=%.1f:TP=%.1f:LRA=%.1f",
			d.config.TargetLUFS,
			d.config.TargetPeak,
			d.config.LoudnessRange)
	case "dynaudnorm":
		return "dynaudnorm=p=0.95:m=10:s=12"
	default:
		return ""
	}
}

func (d *Decoder) processFFmpegOutput(output []byte, input *AudioMetadata, source string, logger logging.Logger) (*AudioData, error) {
	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	duration := time.Duration(len(samples)) * time.Second / time.Duration(d.config.TargetSampleRate)

	logger.Debug("FFmpeg decode completed", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": d.config.TargetSampleRate,
		"output_duration":    duration.Seconds(),
	})

	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Duration:   duration,
		Source:     source,
		Input:      input,
	}, nil
}

// bytesToFloat64 converts raw little-endian float64 bytes, dropping a
// trailing partial sample
func bytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	if sampleCount == 0 {
		return nil
	}

	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
