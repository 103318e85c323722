package summary

import (
	"context"
	"errors"
	"sync"
	"time"

	"attendify/internal/attendance"
)

// ErrInFlight is returned by Start while a request is outstanding.
var ErrInFlight = errors.New("summary request already in flight")

// Phase is the lifecycle position of a summary request.
type Phase string

const (
	Idle      Phase = "idle"
	InFlight  Phase = "in_flight"
	Succeeded Phase = "succeeded"
	Failed    Phase = "failed"
)

// State is a snapshot of the tracker. Text is the report to show; for
// Failed it holds the fallback message and Reason the cause.
type State struct {
	Phase       Phase      `json:"phase"`
	Text        string     `json:"text,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Analyzing reports whether a request is outstanding.
func (s State) Analyzing() bool { return s.Phase == InFlight }

// Tracker runs at most one summary request at a time and remembers the
// last outcome.
type Tracker struct {
	s   *Summarizer
	now func() time.Time

	mu    sync.Mutex
	state State
	done  chan struct{}
}

// NewTracker creates an idle tracker.
func NewTracker(s *Summarizer) *Tracker {
	return &Tracker{s: s, now: time.Now, state: State{Phase: Idle}}
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start launches a summary of records in the background. The request is
// detached from ctx cancellation; only ctx values are kept.
func (t *Tracker) Start(ctx context.Context, records []attendance.Record) error {
	t.mu.Lock()
	if t.state.Phase == InFlight {
		t.mu.Unlock()
		return ErrInFlight
	}
	started := t.now()
	done := make(chan struct{})
	t.state = State{Phase: InFlight, StartedAt: &started}
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		text, err := t.s.summarize(context.WithoutCancel(ctx), records)
		completed := t.now()

		t.mu.Lock()
		defer t.mu.Unlock()
		next := State{Phase: Succeeded, Text: text, StartedAt: &started, CompletedAt: &completed}
		if err != nil {
			next.Phase = Failed
			next.Reason = err.Error()
		}
		t.state = next
	}()
	return nil
}

// Wait blocks until the current request, if any, completes or ctx ends.
func (t *Tracker) Wait(ctx context.Context) State {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return t.State()
}
