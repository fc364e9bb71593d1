package vlive

import (
	"errors"
	"fmt"
)

// ErrUnsupportedURL is returned for URLs that match none of the known shapes.
var ErrUnsupportedURL = errors.New("unsupported URL")

// ParseError reports a missing or malformed field in a fetched page or response.
type ParseError struct {
	VideoID string
	Field   string
	Err     error
}

func (e *ParseError) Error() string {
	msg := "unable to extract " + e.Field
	if e.VideoID != "" {
		msg += " [" + e.VideoID + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AuthError is returned when a login was attempted but not confirmed.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unable to log in"
	}
	return "unable to log in: " + e.Reason
}

// StatusError reports a video whose lifecycle status cannot be played.
type StatusError struct {
	VideoID string
	Status  Status
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("video %s: %s (status %s)", e.VideoID, e.Message, e.Status)
}

// Retryable reports whether a later call may succeed: the replay is still
// being prepared or the broadcast has not started yet.
func (e *StatusError) Retryable() bool {
	switch e.Status.Kind {
	case StatusLiveEnd, StatusComingSoon, StatusUpcoming:
		return true
	default:
		return false
	}
}

// UnknownStatusError reports a status tag this package does not recognize.
type UnknownStatusError struct {
	VideoID string
	Raw     string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("video %s: unknown status %q", e.VideoID, e.Raw)
}
