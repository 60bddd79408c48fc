package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Endpoint is one bound model credential. Implementations must be safe for
// concurrent use and must stop work when ctx is done.
type Endpoint interface {
	// Name identifies the endpoint in logs and metrics ("primary", "backup").
	Name() string

	// Complete submits prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// modelNamer is implemented by endpoints that know their model id.
type modelNamer interface {
	Model() string
}

// Endpoints holds the primary and backup endpoints. Either may be nil.
type Endpoints struct {
	Primary Endpoint
	Backup  Endpoint
}

// BuildEndpoints binds one endpoint per configured credential. Each endpoint
// owns its own client, so switching from primary to backup never touches
// shared state.
func BuildEndpoints(ctx context.Context, cfg Config) (Endpoints, error) {
	var eps Endpoints

	switch cfg.Provider {
	case ProviderOllama:
		if cfg.HasPrimary() {
			eps.Primary = NewOllamaEndpoint("primary", cfg.Endpoint, cfg)
		}
		if cfg.HasBackup() {
			eps.Backup = NewOllamaEndpoint("backup", cfg.BackupEndpoint, cfg)
		}
	default:
		if cfg.HasPrimary() {
			ep, err := NewGeminiEndpoint(ctx, "primary", cfg.APIKey, cfg)
			if err != nil {
				return Endpoints{}, fmt.Errorf("binding primary endpoint: %w", err)
			}
			eps.Primary = ep
		}
		if cfg.HasBackup() {
			ep, err := NewGeminiEndpoint(ctx, "backup", cfg.BackupAPIKey, cfg)
			if err != nil {
				return Endpoints{}, fmt.Errorf("binding backup endpoint: %w", err)
			}
			eps.Backup = ep
		}
	}

	return eps, nil
}

// FuncEndpoint adapts a function to the Endpoint interface.
func FuncEndpoint(name string, fn func(ctx context.Context, prompt string) (string, error)) Endpoint {
	return funcEndpoint{name: name, fn: fn}
}

type funcEndpoint struct {
	name string
	fn   func(ctx context.Context, prompt string) (string, error)
}

func (f funcEndpoint) Name() string { return f.name }

func (f funcEndpoint) Complete(ctx context.Context, prompt string) (string, error) {
	return f.fn(ctx, prompt)
}

// Querier issues time-boxed completions. It holds no per-call state and may
// be shared by concurrent callers.
type Querier struct {
	timeout  time.Duration
	observer Observer
}

// NewQuerier creates a Querier with the given per-call budget.
func NewQuerier(timeout time.Duration, observer Observer) Querier {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return Querier{timeout: timeout, observer: observer}
}

// Timeout returns the per-call budget.
func (q Querier) Timeout() time.Duration { return q.timeout }

// Query submits prompt to ep and waits at most the configured timeout.
// On expiry the context handed to the endpoint is cancelled, so the
// in-flight request is torn down rather than left running.
//
// Returned errors wrap ErrNotConfigured, ErrTimeout, ErrCanceled or
// ErrUnavailable. Successful text is trimmed but otherwise unfiltered.
func (q Querier) Query(ctx context.Context, ep Endpoint, prompt string) (string, error) {
	if ep == nil {
		return "", ErrNotConfigured
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := ep.Complete(callCtx, prompt)
		done <- result{text: text, err: err}
	}()

	var text string
	var err error
	select {
	case r := <-done:
		text = r.text
		if r.err != nil {
			err = classify(ctx, callCtx, r.err)
		}
	case <-callCtx.Done():
		err = classify(ctx, callCtx, callCtx.Err())
	}

	event := CallEvent{
		Endpoint:  ep.Name(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: ErrorCode(err),
	}
	if m, ok := ep.(modelNamer); ok {
		event.Model = m.Model()
	}
	q.observer.OnCallComplete(event)

	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func classify(parent, call context.Context, err error) error {
	switch {
	case parent.Err() != nil:
		return fmt.Errorf("%w: %v", ErrCanceled, parent.Err())
	case errors.Is(call.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrNotConfigured):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
