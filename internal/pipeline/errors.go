package pipeline

import "fmt"

// ErrorKind classifies fatal analysis failures. Non-fatal conditions
// (data quality, degraded retrieval) surface as report warnings instead.
type ErrorKind string

const (
	// KindDataUnavailable: match data fetch failed or the timeline was empty.
	KindDataUnavailable ErrorKind = "data_unavailable"
	// KindGenerationMalformed: generated text failed validation after the retry.
	KindGenerationMalformed ErrorKind = "generation_malformed"
	// KindGenerationTimeout: the generation call timed out after the retry.
	KindGenerationTimeout ErrorKind = "generation_timeout"
	// KindInternal: anything else, including caller cancellation.
	KindInternal ErrorKind = "internal"
)

// AnalysisError is the typed error surfaced to callers. A fatal error never
// comes with a partial report.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error

	// RawGeneration holds the last generation attempt when Kind is
	// KindGenerationMalformed, for diagnostics.
	RawGeneration string
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func analysisErr(kind ErrorKind, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: message, Err: err}
}
