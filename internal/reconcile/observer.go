package reconcile

import (
	"itinerary-route-service/internal/itinerary"
	"log/slog"
	"time"
)

type Outcome string

const (
	// OutcomeApplied means the result replaced the day's order.
	OutcomeApplied Outcome = "applied"
	// OutcomeStale means the day changed while sequencing and the result was discarded.
	OutcomeStale Outcome = "stale"
	// OutcomeFailed means the oracle produced no usable order.
	OutcomeFailed Outcome = "failed"
	// OutcomeDropped means the controller was closed or the day disappeared.
	OutcomeDropped Outcome = "dropped"
)

// Event describes how one sequencing attempt ended.
type Event struct {
	Key      itinerary.DayKey
	Day      int
	Version  uint64
	Stops    int
	Outcome  Outcome
	Err      *OracleError
	Duration time.Duration
}

// Observer receives sequencing outcomes for logging, metrics and notices.
// It is called from the controller's completion loop and must not block.
type Observer interface {
	OnSequenced(Event)
}

type NoopObserver struct{}

func (NoopObserver) OnSequenced(Event) {}

// LogObserver writes outcomes to a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver{logger: l}
}

func (o *LogObserver) OnSequenced(e Event) {
	attrs := []any{
		"day", e.Day,
		"version", e.Version,
		"stops", e.Stops,
		"outcome", string(e.Outcome),
		"dur_ms", e.Duration.Milliseconds(),
	}
	if e.Err != nil {
		o.logger.Warn("sequencing attempt failed", append(attrs, "kind", string(e.Err.Kind), "err", e.Err.Err)...)
		return
	}
	o.logger.Info("sequencing attempt finished", attrs...)
}

// Observers fans an event out to several observers in order.
type Observers []Observer

func (m Observers) OnSequenced(e Event) {
	for _, o := range m {
		o.OnSequenced(e)
	}
}
