package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReference is returned when no reference lab is configured.
	ErrNoReference  = errors.New("reference lab is not configured")
	ErrTaskRequired = errors.New("task description is required")
)

// AdvisoryParseError means the advisory response was not the expected JSON document.
// Scores holds the local top candidates, which stay valid.
type AdvisoryParseError struct {
	Raw    string
	Scores []Entry
	Err    error
}

func (e *AdvisoryParseError) Error() string {
	return fmt.Sprintf("invalid advisory response: %v", e.Err)
}

func (e *AdvisoryParseError) Unwrap() error {
	return e.Err
}

// AdvisoryUnavailableError means the advisory capability is missing or could not be reached.
// Scores holds the local top candidates, which stay valid.
type AdvisoryUnavailableError struct {
	Err    error
	Scores []Entry
}

func (e *AdvisoryUnavailableError) Error() string {
	return fmt.Sprintf("advisory capability unavailable: %v", e.Err)
}

func (e *AdvisoryUnavailableError) Unwrap() error {
	return e.Err
}

// LocalScores returns the top candidates carried by an advisory error, if any.
func LocalScores(err error) ([]Entry, bool) {
	var parseErr *AdvisoryParseError
	if errors.As(err, &parseErr) {
		return parseErr.Scores, true
	}

	var unavailableErr *AdvisoryUnavailableError
	if errors.As(err, &unavailableErr) {
		return unavailableErr.Scores, true
	}

	return nil, false
}
