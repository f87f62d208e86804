package llm

import "errors"

var (
	// ErrMissingKey indicates no API key was configured.
	ErrMissingKey = errors.New("llm api key not set")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnavailable indicates the provider could not be reached or refused the call.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)
