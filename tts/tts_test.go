package tts

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	name  string
	calls []string
}

func (f *fakeSynthesizer) Name() string { return f.name }

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, outputPath string) error {
	f.calls = append(f.calls, text)
	return os.WriteFile(outputPath, []byte("RIFF"), 0o644)
}

func TestRegistryDispatch(t *testing.T) {
	fake := &fakeSynthesizer{name: "fake"}
	r := NewRegistry()
	r.Register(fake)

	out := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, r.Synthesize(context.Background(), "fake", "hello world", out))
	assert.Equal(t, []string{"hello world"}, fake.calls)
	assert.FileExists(t, out)
}

func TestRegistryUnsupportedEngine(t *testing.T) {
	fake := &fakeSynthesizer{name: "fake"}
	r := NewRegistry()
	r.Register(fake)

	err := r.Synthesize(context.Background(), "festival", "hello", filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
	assert.Empty(t, fake.calls)
}

func TestRegistryEmptyText(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSynthesizer{name: "fake"})

	err := r.Synthesize(context.Background(), "fake", "", "unused.wav")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{EspeakNGName}, r.Names())

	s, err := r.Get(EspeakNGName)
	require.NoError(t, err)
	assert.Equal(t, EspeakNGName, s.Name())
}

func TestEspeakNGArgs(t *testing.T) {
	e := NewEspeakNG()

	args, stdin := e.Args("hello", "/tmp/out.wav")
	assert.False(t, stdin)
	assert.Equal(t, []string{"-w", "/tmp/out.wav", "hello"}, args)

	e.Voice = "en-us"
	args, stdin = e.Args("-dash first", "/tmp/out.wav")
	assert.True(t, stdin)
	assert.Equal(t, []string{"-w", "/tmp/out.wav", "-v", "en-us", "--stdin"}, args)
}

func TestEspeakNGMissingBinary(t *testing.T) {
	e := &EspeakNG{Path: filepath.Join(t.TempDir(), "no-such-espeak")}

	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorIs(t, err, ErrExternalProcess)
}

func TestEspeakNGFailingProcess(t *testing.T) {
	path, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}

	e := &EspeakNG{Path: path}
	err = e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorIs(t, err, ErrExternalProcess)
}

func TestEspeakNGNoOutput(t *testing.T) {
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}

	e := &EspeakNG{Path: path}
	err = e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorIs(t, err, ErrExternalProcess)
}

func TestEspeakNGWritesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "espeak-ng")
	body := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-w\" ]; then shift; printf RIFF > \"$1\"; fi\n  shift\ndone\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	out := filepath.Join(dir, "out.wav")
	e := &EspeakNG{Path: script, Voice: "en"}
	require.NoError(t, e.Synthesize(context.Background(), "hello", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))
}

func TestEspeakNGCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEspeakNG()
	err := e.Synthesize(ctx, "hello", filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorIs(t, err, ErrExternalProcess)
}
