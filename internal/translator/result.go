package translator

import "time"

// ErrorKind tags the failure class of a translation result so callers can
// handle failures exhaustively instead of matching message strings.
type ErrorKind string

const (
	// KindValidation marks input rejected before any external call.
	KindValidation ErrorKind = "validation"
	// KindDetectionUnavailable marks a language-detection degradation.
	// Detection failures never fail a request, so this kind only appears in
	// logs and evaluation feedback, never on a Result.
	KindDetectionUnavailable ErrorKind = "detection_unavailable"
	// KindExternalService marks an upstream model or network failure.
	KindExternalService ErrorKind = "external_service"
	// KindEvaluationDegraded marks an LLM-as-judge failure that was replaced
	// with neutral scores.
	KindEvaluationDegraded ErrorKind = "evaluation_degraded"
)

// ResultError carries the failure kind and a human-readable reason.
type ResultError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ResultError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Result is the outcome of a translation request. Immutable once produced;
// shared by the cache, monitor, and evaluator.
type Result struct {
	Success        bool          `json:"success"`
	Translation    string        `json:"translation"`
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	Detected       bool          `json:"detected,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	Note           string        `json:"note,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
	Error          *ResultError  `json:"error,omitempty"`
}

// failure builds a failed Result with the elapsed time filled in.
func failure(kind ErrorKind, message, sourceLang, targetLang string, start time.Time) *Result {
	return &Result{
		Success:        false,
		Translation:    "",
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		ProcessingTime: time.Since(start),
		Error:          &ResultError{Kind: kind, Message: message},
	}
}
