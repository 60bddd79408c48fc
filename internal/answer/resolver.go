package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"github.com/alexanderramin/taskhelper/internal/llm"
	"github.com/google/uuid"
)

// ResolverConfig wires a Resolver. Zero fields fall back to defaults.
type ResolverConfig struct {
	Document  *knowledge.Document
	Endpoints llm.Endpoints
	Querier   llm.Querier
	Gate      *QualityGate
	Keywords  *KeywordTable
	MaxRunes  int
	Observer  Observer
}

// Resolver runs the fallback chain primary model → backup model → keyword
// rule → static message. It holds only read-only state and is safe for
// concurrent use.
type Resolver struct {
	doc       *knowledge.Document
	endpoints llm.Endpoints
	querier   llm.Querier
	gate      QualityGate
	keywords  KeywordTable
	static    string
	maxRunes  int
	observer  Observer
	logger    *slog.Logger
}

// NewResolver creates a Resolver from cfg.
func NewResolver(cfg ResolverConfig, logger *slog.Logger) *Resolver {
	if cfg.Document == nil {
		cfg.Document = knowledge.Default(knowledge.DefaultContacts())
	}
	if cfg.Querier.Timeout() <= 0 {
		cfg.Querier = llm.NewQuerier(0, nil)
	}
	gate := DefaultQualityGate()
	if cfg.Gate != nil {
		gate = *cfg.Gate
	}
	keywords := DefaultKeywordTable(cfg.Document.Contacts())
	if cfg.Keywords != nil {
		keywords = *cfg.Keywords
	}
	if cfg.MaxRunes <= 0 || cfg.MaxRunes > MaxAnswerRunes {
		cfg.MaxRunes = MaxAnswerRunes
	}
	if cfg.Observer == nil {
		cfg.Observer = NoopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		doc:       cfg.Document,
		endpoints: cfg.Endpoints,
		querier:   cfg.Querier,
		gate:      gate,
		keywords:  keywords,
		static:    StaticFallback(cfg.Document.Contacts()),
		maxRunes:  cfg.MaxRunes,
		observer:  cfg.Observer,
		logger:    logger,
	}
}

// Resolve produces the single answer for q. Stage failures are logged and
// absorbed; the only error returned wraps ErrAbandoned, when ctx ends before
// an answer is chosen. In that case nothing should be sent to the user.
func (r *Resolver) Resolve(ctx context.Context, q Question) (FinalAnswer, error) {
	start := time.Now()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	logger := r.logger.With("question_id", q.ID, "requester_id", q.RequesterID)

	var attempts []StageAttempt
	prompt := BuildPrompt(r.doc, q.Text)

	models := []struct {
		stage    Stage
		endpoint llm.Endpoint
		source   Source
	}{
		{StageTryPrimary, r.endpoints.Primary, SourcePrimaryModel},
		{StageTryBackup, r.endpoints.Backup, SourceBackupModel},
	}
	for _, m := range models {
		if ctx.Err() != nil {
			return r.abandon(ctx, logger, q, start, attempts)
		}
		stageStart := time.Now()
		text, err := r.queryModel(ctx, m.endpoint, prompt)
		if err == nil {
			return r.finish(logger, q, start, Candidate{Text: text, Source: m.source}, attempts), nil
		}
		if errors.Is(err, llm.ErrCanceled) || ctx.Err() != nil {
			return r.abandon(ctx, logger, q, start, attempts)
		}
		attempts = r.recordFailure(logger, attempts, m.stage, err, time.Since(stageStart))
	}

	if ctx.Err() != nil {
		return r.abandon(ctx, logger, q, start, attempts)
	}
	if text, ok := r.keywords.Lookup(q.Text); ok {
		return r.finish(logger, q, start, Candidate{Text: text, Source: SourceKeywordRule}, attempts), nil
	}
	attempts = r.recordFailure(logger, attempts, StageTryKeyword, errNoKeywordMatch, 0)

	return r.finish(logger, q, start, Candidate{Text: r.static, Source: SourceStaticFallback}, attempts), nil
}

func (r *Resolver) queryModel(ctx context.Context, ep llm.Endpoint, prompt string) (string, error) {
	if ep == nil {
		return "", llm.ErrNotConfigured
	}
	text, err := r.querier.Query(ctx, ep, prompt)
	if err != nil {
		return "", err
	}
	if err := r.gate.Check(text); err != nil {
		return "", err
	}
	return text, nil
}

func (r *Resolver) recordFailure(logger *slog.Logger, attempts []StageAttempt, stage Stage, err error, d time.Duration) []StageAttempt {
	kind := ClassifyStageError(err)
	level := slog.LevelWarn
	if kind == KindNotConfigured || kind == KindNoMatch {
		level = slog.LevelDebug
	}
	logger.Log(context.Background(), level, "answer stage failed",
		"stage", string(stage),
		"kind", string(kind),
		"duration_ms", d.Milliseconds(),
		"error", err.Error(),
	)
	return append(attempts, StageAttempt{Stage: stage, Kind: kind, Err: err, Duration: d})
}

func (r *Resolver) finish(logger *slog.Logger, q Question, start time.Time, c Candidate, attempts []StageAttempt) FinalAnswer {
	final := FinalAnswer{
		Text:     boundText(c.Text, r.maxRunes),
		Source:   c.Source,
		Attempts: attempts,
	}
	elapsed := time.Since(start)
	logger.Info("answer resolved",
		"source", string(final.Source),
		"failed_stages", len(attempts),
		"duration_ms", elapsed.Milliseconds(),
	)
	r.observer.OnResolved(ResolutionEvent{
		QuestionID: q.ID,
		Source:     final.Source,
		Attempts:   attempts,
		Duration:   elapsed,
	})
	return final
}

func (r *Resolver) abandon(ctx context.Context, logger *slog.Logger, q Question, start time.Time, attempts []StageAttempt) (FinalAnswer, error) {
	elapsed := time.Since(start)
	logger.Info("answer abandoned",
		"failed_stages", len(attempts),
		"duration_ms", elapsed.Milliseconds(),
		"cause", fmt.Sprint(context.Cause(ctx)),
	)
	r.observer.OnResolved(ResolutionEvent{
		QuestionID: q.ID,
		Attempts:   attempts,
		Duration:   elapsed,
		Abandoned:  true,
	})
	return FinalAnswer{}, fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err())
}

// boundText trims text and cuts it to at most max runes, marking the cut
// with an ellipsis.
func boundText(text string, max int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
