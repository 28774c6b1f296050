// Package tts renders text to WAV files through external speech engines.
//
// Engines are looked up by name in a Registry. An unknown name fails with
// ErrUnsupportedEngine before any process is started.
package tts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

var (
	// ErrUnsupportedEngine is returned for an engine name with no registered synthesizer
	ErrUnsupportedEngine = errors.New("unsupported TTS engine")

	// ErrExternalProcess wraps spawn failures and non-zero exits of the engine
	ErrExternalProcess = common.ErrExternalProcess

	// ErrEmptyText is returned when there is nothing to speak
	ErrEmptyText = errors.New("empty text")
)

// Synthesizer writes speech for text to a WAV file at outputPath
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, outputPath string) error
}

// Registry maps engine names to synthesizers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Synthesizer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Synthesizer)}
}

// DefaultRegistry returns a registry holding espeak-ng from PATH
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewEspeakNG())
	return r
}

// Register adds s under s.Name(), replacing any engine of the same name
func (r *Registry) Register(s Synthesizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[s.Name()] = s
}

// Get returns the synthesizer registered under name
func (r *Registry) Get(name string) (Synthesizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnsupportedEngine)
	}
	return s, nil
}

// Names lists the registered engines in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Synthesize renders text with the named engine
func (r *Registry) Synthesize(ctx context.Context, engine, text, outputPath string) error {
	s, err := r.Get(engine)
	if err != nil {
		return err
	}
	if text == "" {
		return ErrEmptyText
	}
	return s.Synthesize(ctx, text, outputPath)
}
