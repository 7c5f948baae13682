package quizapi

import (
	"errors"
	"fmt"
)

// GenericFailure is reported when the service gives no reason of its own.
const GenericFailure = "An unknown error occurred."

var (
	// ErrNoSource is returned when generation is requested without a source.
	ErrNoSource = errors.New("no study material selected")

	// ErrNoQuestions is returned when exporting an empty question list.
	ErrNoQuestions = errors.New("quiz has no questions")

	// ErrMalformedResponse wraps any shape mismatch in a generation response.
	ErrMalformedResponse = errors.New("malformed response")
)

// GenerationError reports a failed generation call. Network failures,
// non-success statuses and malformed bodies all surface as this type.
type GenerationError struct {
	StatusCode int // 0 when no response was received
	Reason     string
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ExportError reports a failed export call.
type ExportError struct {
	Format     Format
	StatusCode int
	Reason     string
	Err        error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed: %s", e.Reason)
}

func (e *ExportError) Unwrap() error { return e.Err }
