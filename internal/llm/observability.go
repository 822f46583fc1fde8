package llm

import "log/slog"

// CallEvent records metadata about a single model invocation.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// SlogObserver logs model call events through a structured logger.
type SlogObserver struct {
	log *slog.Logger
}

// NewSlogObserver creates an Observer that logs events to log.
func NewSlogObserver(log *slog.Logger) *SlogObserver {
	return &SlogObserver{log: log}
}

func (o *SlogObserver) OnCallComplete(event CallEvent) {
	if event.Success {
		o.log.Info("llm_call",
			"task", event.Task,
			"model", event.Model,
			"latency_ms", event.LatencyMs)
		return
	}
	o.log.Warn("llm_call",
		"task", event.Task,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"error_code", event.ErrorCode)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
