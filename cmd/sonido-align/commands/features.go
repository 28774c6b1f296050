package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-align/features"
	"github.com/RyanBlaney/sonido-align/transcode"
)

var featuresCmd = &cobra.Command{
	Use:   "features <audio>",
	Short: "Extract MFCC features from an audio file",
	Long: `Decode an audio file at the configured sample rate and print its MFCC
features, one row per frame.

Example:
  sonido-align features speech.wav --json -o speech-mfcc.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		dc := transcode.DefaultDecoderConfig()
		dc.TargetSampleRate = cfg.MFCC.SampleRate
		dc.FFmpegPath = cfg.Alignment.FFmpegPath
		dc.FFprobePath = cfg.Alignment.FFprobePath
		dc.Timeout = cfg.Alignment.Timeout

		audio, err := transcode.NewDecoder(dc).DecodeFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printVerbose("Decoded %d samples (%s)", len(audio.PCM), audio.Duration)

		m, err := features.Extract(audio.PCM, cfg.MFCC)
		if err != nil {
			return fmt.Errorf("extract features: %w", err)
		}

		coefficients, frames := m.Dims()
		return outputResult(cmd.OutOrStdout(), featuresReport{
			SampleRate:   cfg.MFCC.SampleRate,
			Samples:      len(audio.PCM),
			Frames:       frames,
			Coefficients: coefficients,
			FrameSeconds: cfg.MFCC.FrameDuration().Seconds(),
			Features:     features.ToFrames(m),
		})
	},
}

type featuresReport struct {
	SampleRate   int         `json:"sample_rate" yaml:"sample_rate"`
	Samples      int         `json:"samples" yaml:"samples"`
	Frames       int         `json:"frames" yaml:"frames"`
	Coefficients int         `json:"coefficients" yaml:"coefficients"`
	FrameSeconds float64     `json:"frame_seconds" yaml:"frame_seconds"`
	Features     [][]float64 `json:"features" yaml:"features"`
}
