package transcode

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

const probeJSON = `{
  "streams": [
    {
      "codec_type": "audio",
      "codec_name": "pcm_s16le",
      "codec_long_name": "PCM signed 16-bit little-endian",
      "sample_rate": "22050",
      "channels": 1,
      "duration": "1.500000",
      "bit_rate": "352800"
    }
  ]
}`

func TestParseFFprobeOutput(t *testing.T) {
	meta, err := parseFFprobeOutput([]byte(probeJSON))
	require.NoError(t, err)

	assert.Equal(t, 22050, meta.SampleRate)
	assert.Equal(t, 1, meta.Channels)
	assert.Equal(t, "pcm_s16le", meta.Codec)
	assert.InDelta(t, 1.5, meta.Duration, 1e-9)
	assert.Equal(t, 352800, meta.Bitrate)
}

func TestParseFFprobeOutputErrors(t *testing.T) {
	_, err := parseFFprobeOutput([]byte(`{"streams": []}`))
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = parseFFprobeOutput([]byte(`{"streams": [{"codec_type": "video", "channels": 0}]}`))
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = parseFFprobeOutput([]byte(`{"streams": [{"codec_type": "audio", "channels": 0}]}`))
	assert.Error(t, err)

	_, err = parseFFprobeOutput([]byte(`not json`))
	assert.Error(t, err)
}

func TestBytesToFloat64(t *testing.T) {
	want := []float64{0.5, -0.25, 1.0}
	data := make([]byte, 8*len(want)+3) // trailing partial sample
	for i, v := range want {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}

	assert.Equal(t, want, bytesToFloat64(data))
	assert.Nil(t, bytesToFloat64(data[:7]))
}

func TestBuildFFmpegArgs(t *testing.T) {
	d := NewDecoder(nil)

	args := d.buildFFmpegArgs(&AudioMetadata{SampleRate: 16000})
	assert.Equal(t, []string{"-vn", "-f", "f64le", "-ac", "1", "-ar", "16000", "-v", "error"}, args)

	args = d.buildFFmpegArgs(&AudioMetadata{SampleRate: 44100})
	assert.Contains(t, args, "aresample=resampler=soxr:precision=20")

	cfg := DefaultDecoderConfig()
	cfg.EnableNormalization = true
	cfg.NormalizationMethod = "loudnorm"
	cfg.MaxDuration = 2 * time.Second
	args = NewDecoder(cfg).buildFFmpegArgs(&AudioMetadata{SampleRate: 8000})
	assert.Contains(t, args, "aresample=resampler=soxr:precision=20,loudnorm=I=-20.0:TP=-3.0:LRA=5.0")
	assert.Contains(t, args, "2.00")
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultDecoderConfig()
	cfg.TargetSampleRate = 0
	assert.ErrorIs(t, NewDecoder(cfg).ValidateConfig(), common.ErrConfiguration)

	assert.NoError(t, NewDecoder(nil).ValidateConfig())
}

func TestDecodeFileMissingBinary(t *testing.T) {
	cfg := DefaultDecoderConfig()
	cfg.FFprobePath = filepath.Join(t.TempDir(), "no-such-ffprobe")

	_, err := NewDecoder(cfg).DecodeFile(context.Background(), "input.wav")
	assert.ErrorIs(t, err, ErrExternalProcess)
}

func TestDecodeBytesEmpty(t *testing.T) {
	_, err := NewDecoder(nil).DecodeBytes(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAudio)
}

// fakeTools writes ffprobe and ffmpeg stand-ins that emit fixed output
func fakeTools(t *testing.T, samples []float64) *DecoderConfig {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools")
	}

	dir := t.TempDir()
	raw := make([]byte, 8*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	pcm := filepath.Join(dir, "pcm.raw")
	probe := filepath.Join(dir, "probe.json")
	require.NoError(t, os.WriteFile(pcm, raw, 0o644))
	require.NoError(t, os.WriteFile(probe, []byte(probeJSON), 0o644))

	ffprobe := filepath.Join(dir, "ffprobe")
	ffmpeg := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(ffprobe, []byte("#!/bin/sh\ncat "+probe+"\n"), 0o755))
	require.NoError(t, os.WriteFile(ffmpeg, []byte("#!/bin/sh\ncat "+pcm+"\n"), 0o755))

	cfg := DefaultDecoderConfig()
	cfg.FFprobePath = ffprobe
	cfg.FFmpegPath = ffmpeg
	return cfg
}

func TestDecodeFileWithFakeTools(t *testing.T) {
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = math.Sin(float64(i) * 0.1)
	}

	d := NewDecoder(fakeTools(t, samples))
	audio, err := d.DecodeFile(context.Background(), "speech.wav")
	require.NoError(t, err)

	assert.Equal(t, samples, audio.PCM)
	assert.Equal(t, 16000, audio.SampleRate)
	assert.Equal(t, 100*time.Millisecond, audio.Duration)
	assert.Equal(t, "speech.wav", audio.Source)
	require.NotNil(t, audio.Input)
	assert.Equal(t, 22050, audio.Input.SampleRate)
}
