// Package parsererror defines the typed errors raised while ingesting
// statements and classifying transactions.
package parsererror

import "fmt"

// ParseError reports a single field that could not be parsed.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError means the input file does not look like a bank
// statement at all: no recognizable header, or no row survived parsing.
type InvalidFormatError struct {
	FilePath string
	Reason   string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid statement format in '%s': %s", e.FilePath, e.Reason)
}

// ClassificationError reports a chunk the AI service could not classify.
// The orchestrator recovers from these; they surface in logs and in the
// degraded-result counters.
type ClassificationError struct {
	Chunk int
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed for chunk %d: %v", e.Chunk, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
