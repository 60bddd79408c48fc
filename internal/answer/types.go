// Package answer turns a free-text question into exactly one bounded,
// policy-compliant reply by walking a fixed chain of strategies.
package answer

import (
	"time"

	"github.com/google/uuid"
)

// MaxAnswerRunes bounds every FinalAnswer so it fits in one chat message.
const MaxAnswerRunes = 2000

// Source identifies which stage produced an answer.
type Source string

const (
	SourcePrimaryModel   Source = "primary_model"
	SourceBackupModel    Source = "backup_model"
	SourceKeywordRule    Source = "keyword_rule"
	SourceStaticFallback Source = "static_fallback"
)

// Stage is one step of the resolution chain.
type Stage string

const (
	StageTryPrimary     Stage = "try_primary"
	StageTryBackup      Stage = "try_backup"
	StageTryKeyword     Stage = "try_keyword"
	StageStaticFallback Stage = "static_fallback"
)

// Question is a single user request. It is never persisted.
type Question struct {
	ID          string
	Text        string
	RequesterID string
}

// NewQuestion stamps a question with a fresh correlation id.
func NewQuestion(text, requesterID string) Question {
	return Question{
		ID:          uuid.NewString(),
		Text:        text,
		RequesterID: requesterID,
	}
}

// Candidate is an unvetted answer produced by one stage.
type Candidate struct {
	Text   string
	Source Source
}

// StageAttempt records why a stage did not produce the final answer.
type StageAttempt struct {
	Stage    Stage
	Kind     StageErrorKind
	Err      error
	Duration time.Duration
}

// FinalAnswer is the single reply for a Question.
type FinalAnswer struct {
	Text   string
	Source Source

	// Attempts lists the stages that were skipped or failed before Source.
	// It is for operators only and never shown to users.
	Attempts []StageAttempt
}
