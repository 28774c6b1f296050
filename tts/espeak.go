package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-align/logging"
)

// EspeakNGName is the registry name of the espeak-ng engine
const EspeakNGName = "espeak-ng"

// EspeakNG drives the espeak-ng command line synthesizer
type EspeakNG struct {
	// Path is the espeak-ng binary; a bare name is looked up in PATH
	Path string

	// Voice is passed as -v when set
	Voice string
}

// NewEspeakNG returns an engine using espeak-ng from PATH with its default voice
func NewEspeakNG() *EspeakNG {
	return &EspeakNG{Path: "espeak-ng"}
}

func (e *EspeakNG) Name() string {
	return EspeakNGName
}

// Args builds the command line for text. Text that starts with a dash would
// be parsed as an option, so it is sent on stdin instead.
func (e *EspeakNG) Args(text, outputPath string) (args []string, stdin bool) {
	args = []string{"-w", outputPath}
	if e.Voice != "" {
		args = append(args, "-v", e.Voice)
	}
	if strings.HasPrefix(text, "-") {
		return append(args, "--stdin"), true
	}
	return append(args, text), false
}

// Synthesize runs espeak-ng and checks that it produced outputPath
func (e *EspeakNG) Synthesize(ctx context.Context, text, outputPath string) error {
	if text == "" {
		return ErrEmptyText
	}

	logger := logging.WithFields(logging.Fields{
		"component": "tts",
		"engine":    EspeakNGName,
		"output":    outputPath,
	})

	args, viaStdin := e.Args(text, outputPath)
	cmd := exec.CommandContext(ctx, e.Path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if viaStdin {
		cmd.Stdin = strings.NewReader(text)
	}

	logger.Debug("Running espeak-ng", logging.Fields{
		"args":        len(args),
		"text_length": len(text),
	})

	start := time.Now()
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error(err, "espeak-ng failed", logging.Fields{
				"stderr": stderr.String(),
			})
			return fmt.Errorf("%w: espeak-ng exited with %d: %s",
				ErrExternalProcess, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%w: failed to run %s: %v", ErrExternalProcess, e.Path, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: espeak-ng produced no audio at %s", ErrExternalProcess, outputPath)
	}

	logger.Debug("espeak-ng completed", logging.Fields{
		"bytes":       info.Size(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
