package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-align/aligner"
	"github.com/RyanBlaney/sonido-align/config"
	"github.com/RyanBlaney/sonido-align/logging"
)

var alignCmd = &cobra.Command{
	Use:   "align <recording>",
	Short: "Align a recording with a transcript or a reference recording",
	Long: `Align a recording with a transcript or a reference recording.

With --text or --text-file the transcript is synthesized by the configured
TTS engine (espeak-ng by default) and the recording is aligned against the
synthesized speech. With --reference the two files are aligned directly.

The output maps every reference frame to a time in the recording.

Example:
  sonido-align align recording.wav --text-file transcript.txt --band-seconds 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func runAlign(cmd *cobra.Command, args []string) error {
	cfg, err := alignConfig(cmd)
	if err != nil {
		return err
	}

	text, err := transcript(cmd)
	if err != nil {
		return err
	}
	reference, err := cmd.Flags().GetString("reference")
	if err != nil {
		return fmt.Errorf("failed to read 'reference' flag: %w", err)
	}
	if (text == "") == (reference == "") {
		return fmt.Errorf("exactly one of --text, --text-file or --reference is required")
	}

	a, err := aligner.New(cfg, aligner.WithObserver(logging.NewLogObserver(nil)))
	if err != nil {
		return err
	}

	var result *aligner.Alignment
	if reference != "" {
		printVerbose("Aligning %s against %s", args[0], reference)
		result, err = a.AlignFiles(cmd.Context(), args[0], reference)
	} else {
		printVerbose("Aligning %s against %d characters of %s speech", args[0], len(text), cfg.Alignment.TTSEngine)
		result, err = a.AlignText(cmd.Context(), args[0], text)
	}
	if err != nil {
		return err
	}

	includePath, err := cmd.Flags().GetBool("path")
	if err != nil {
		return fmt.Errorf("failed to read 'path' flag: %w", err)
	}

	return outputResult(cmd.OutOrStdout(), newAlignReport(result, includePath))
}

// alignConfig applies the command line overrides to the loaded configuration
func alignConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := getConfig()
	flags := cmd.Flags()

	if flags.Changed("band") {
		band, err := flags.GetInt("band")
		if err != nil {
			return cfg, fmt.Errorf("failed to read 'band' flag: %w", err)
		}
		cfg.Alignment.BandWidth = band
	}
	if flags.Changed("band-seconds") {
		seconds, err := flags.GetFloat64("band-seconds")
		if err != nil {
			return cfg, fmt.Errorf("failed to read 'band-seconds' flag: %w", err)
		}
		cfg.Alignment.BandWidth = 0
		cfg.Alignment.BandWidthSeconds = seconds
	}
	if flags.Changed("engine") {
		cfg.Alignment.TTSEngine, _ = flags.GetString("engine")
	}
	if flags.Changed("voice") {
		cfg.Alignment.Voice, _ = flags.GetString("voice")
	}
	if flags.Changed("reject-silent") {
		cfg.Alignment.RejectSilentFrames, _ = flags.GetBool("reject-silent")
	}

	return cfg, cfg.Validate()
}

func transcript(cmd *cobra.Command) (string, error) {
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return "", fmt.Errorf("failed to read 'text' flag: %w", err)
	}
	textFile, err := cmd.Flags().GetString("text-file")
	if err != nil {
		return "", fmt.Errorf("failed to read 'text-file' flag: %w", err)
	}

	if textFile != "" {
		if text != "" {
			return "", fmt.Errorf("--text and --text-file are mutually exclusive")
		}
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("failed to read transcript %s: %w", textFile, err)
		}
		text = string(data)
	}

	return strings.TrimSpace(text), nil
}

// alignReport is the printable form of an alignment, with times in seconds
type alignReport struct {
	RecordedFrames  int            `json:"recorded_frames" yaml:"recorded_frames"`
	ReferenceFrames int            `json:"reference_frames" yaml:"reference_frames"`
	FrameSeconds    float64        `json:"frame_seconds" yaml:"frame_seconds"`
	BandWidth       int            `json:"band_width" yaml:"band_width"`
	Cost            float64        `json:"cost" yaml:"cost"`
	DiagonalRatio   float64        `json:"diagonal_ratio" yaml:"diagonal_ratio"`
	PathEfficiency  float64        `json:"path_efficiency" yaml:"path_efficiency"`
	AverageCost     float64        `json:"average_cost" yaml:"average_cost"`
	Mapping         []mappingEntry `json:"mapping" yaml:"mapping"`
	Path            [][2]int       `json:"path,omitempty" yaml:"path,omitempty"`
}

type mappingEntry struct {
	Synthesized float64 `json:"synthesized" yaml:"synthesized"`
	Recorded    float64 `json:"recorded" yaml:"recorded"`
}

func newAlignReport(a *aligner.Alignment, includePath bool) alignReport {
	report := alignReport{
		RecordedFrames:  a.RecordedFrames,
		ReferenceFrames: a.ReferenceFrames,
		FrameSeconds:    a.FrameDuration.Seconds(),
		BandWidth:       a.BandWidth,
		Cost:            a.Cost,
		DiagonalRatio:   a.Quality.DiagonalRatio,
		PathEfficiency:  a.Quality.PathEfficiency,
		AverageCost:     a.Quality.AverageCost,
		Mapping:         make([]mappingEntry, len(a.Mapping)),
	}
	for k, p := range a.Mapping {
		report.Mapping[k] = mappingEntry{
			Synthesized: p.Synthesized.Seconds(),
			Recorded:    p.Recorded.Seconds(),
		}
	}
	if includePath {
		report.Path = make([][2]int, len(a.Path))
		for k, c := range a.Path {
			report.Path[k] = [2]int{c.I, c.J}
		}
	}
	return report
}

func init() {
	alignCmd.Flags().String("text", "", "transcript to synthesize")
	alignCmd.Flags().String("text-file", "", "file holding the transcript")
	alignCmd.Flags().String("reference", "", "reference recording to align against instead of synthesized speech")
	alignCmd.Flags().Int("band", 0, "band width in frames (0: whole reference)")
	alignCmd.Flags().Float64("band-seconds", 0, "band width in seconds")
	alignCmd.Flags().String("engine", "", "TTS engine")
	alignCmd.Flags().String("voice", "", "TTS voice")
	alignCmd.Flags().Bool("reject-silent", false, "fail on zero-energy frames instead of scoring them as unrelated")
	alignCmd.Flags().Bool("path", false, "include the full frame path in the output")
}
