package logging

import "time"

// Observer receives stage timings from the feature and alignment pipelines.
// Implementations must be cheap; they run inline on the calling goroutine.
type Observer interface {
	Stage(name string, elapsed time.Duration, fields Fields)
}

// NopObserver ignores every stage
type NopObserver struct{}

func (NopObserver) Stage(string, time.Duration, Fields) {}

// LogObserver forwards stage timings to a Logger at debug level
type LogObserver struct {
	Logger Logger
}

// NewLogObserver wraps logger; a nil logger falls back to the global logger
func NewLogObserver(logger Logger) *LogObserver {
	if logger == nil {
		logger = GetGlobalLogger()
	}
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) Stage(name string, elapsed time.Duration, fields Fields) {
	o.Logger.Debug("stage completed", Fields{
		"stage":      name,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000.0,
	}.Merge(fields))
}

// StageTimer measures one stage and reports it when Done is called
type StageTimer struct {
	observer Observer
	name     string
	start    time.Time
}

// StartStage begins timing name. A nil observer yields a timer whose Done is a no-op.
func StartStage(observer Observer, name string) StageTimer {
	return StageTimer{observer: observer, name: name, start: time.Now()}
}

// Done reports the elapsed time since StartStage
func (t StageTimer) Done(fields Fields) {
	if t.observer == nil {
		return
	}
	t.observer.Stage(t.name, time.Since(t.start), fields)
}
