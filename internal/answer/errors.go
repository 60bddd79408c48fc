package answer

import (
	"errors"

	"github.com/alexanderramin/taskhelper/internal/llm"
)

var (
	// ErrQualityRejected indicates the model answered but the Quality Gate
	// refused the text.
	ErrQualityRejected = errors.New("answer rejected by quality gate")

	// ErrAbandoned indicates the caller's context ended mid-resolution. The
	// caller must not send anything.
	ErrAbandoned = errors.New("answer resolution abandoned")
)

// StageErrorKind is the recoverable failure class of a stage.
type StageErrorKind string

const (
	KindTimeout          StageErrorKind = "timeout"
	KindTransportFailure StageErrorKind = "transport_failure"
	KindQualityRejected  StageErrorKind = "quality_rejected"
	KindNotConfigured    StageErrorKind = "not_configured"
	KindNoMatch          StageErrorKind = "no_match"
)

// ClassifyStageError maps a stage error to its failure class. Unknown errors
// count as transport failures.
func ClassifyStageError(err error) StageErrorKind {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return KindTimeout
	case errors.Is(err, llm.ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, ErrQualityRejected):
		return KindQualityRejected
	case errors.Is(err, errNoKeywordMatch):
		return KindNoMatch
	default:
		return KindTransportFailure
	}
}
