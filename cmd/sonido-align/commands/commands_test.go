package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-align/aligner"
	"github.com/RyanBlaney/sonido-align/config"
	"github.com/RyanBlaney/sonido-align/dtw"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = ""
	outputFile = ""
	outputJSON = false
	verbose = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommandYAML(t *testing.T) {
	out, err := runCmd(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "sample_rate: 16000")
	assert.Contains(t, out, "tts_engine: espeak-ng")
}

func TestConfigCommandJSONRoundTrip(t *testing.T) {
	out, err := runCmd(t, "config", "--json")
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out), ".json")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigCommandLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "align.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alignment:\n  band_width: 77\n"), 0o644))

	out, err := runCmd(t, "--config", path, "config", "--json")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 77, cfg.Alignment.BandWidth)
}

func TestConfigCommandMissingFile(t *testing.T) {
	_, err := runCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config")
	assert.Error(t, err)
}

func TestEnginesCommand(t *testing.T) {
	out, err := runCmd(t, "engines")
	require.NoError(t, err)
	assert.Equal(t, "espeak-ng\n", out)
}

func TestAlignCommandRequiresOneSource(t *testing.T) {
	_, err := runCmd(t, "align", "recording.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestAlignCommandRequiresRecording(t *testing.T) {
	_, err := runCmd(t, "align")
	assert.Error(t, err)
}

func TestOutputResultToFile(t *testing.T) {
	outputFile = filepath.Join(t.TempDir(), "nested", "out.json")
	outputJSON = true
	defer func() {
		outputFile = ""
		outputJSON = false
	}()

	require.NoError(t, outputResult(nil, map[string]int{"frames": 3}))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"frames": 3}`, string(data))
}

func TestNewAlignReport(t *testing.T) {
	a := &aligner.Alignment{
		Path:            []dtw.Cell{{I: 0, J: 0}, {I: 1, J: 1}},
		Cost:            0.5,
		Quality:         dtw.Quality{DiagonalRatio: 1, PathEfficiency: 1, AverageCost: 0.25},
		Mapping:         []aligner.TimePair{{Synthesized: 0, Recorded: 0}, {Synthesized: 10 * time.Millisecond, Recorded: 10 * time.Millisecond}},
		FrameDuration:   10 * time.Millisecond,
		RecordedFrames:  2,
		ReferenceFrames: 2,
		BandWidth:       2,
	}

	report := newAlignReport(a, false)
	assert.Nil(t, report.Path)
	assert.InDelta(t, 0.01, report.FrameSeconds, 1e-12)
	assert.InDelta(t, 0.01, report.Mapping[1].Recorded, 1e-12)

	report = newAlignReport(a, true)
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}}, report.Path)
}
