package answer

import "time"

// ResolutionEvent summarizes one finished or abandoned resolution.
type ResolutionEvent struct {
	QuestionID string
	Source     Source // empty when Abandoned
	Attempts   []StageAttempt
	Duration   time.Duration
	Abandoned  bool
}

// Observer receives resolution events for metrics.
type Observer interface {
	OnResolved(event ResolutionEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnResolved(ResolutionEvent) {}
