// ABOUTME: Classifies raw execution output into success, error, empty, or transport failure.
// ABOUTME: Also truncates oversized output around a fixed marker before it is formatted for display.
package playpen

import (
	"fmt"
	"strings"
)

// Status is the outcome of one execution request.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	StatusEmpty
	StatusTransportFailure
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// MarshalText lets Status appear by name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status wire name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusSuccess, StatusError, StatusEmpty, StatusTransportFailure} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// RunResult is the classified response of one execution request.
// It is built once and never mutated.
type RunResult struct {
	Status  Status
	RawText string
}

// DefaultMaxLength is the output length above which results are shortened.
const DefaultMaxLength = 50000

// ShortenedMarker replaces the middle of an oversized result.
const ShortenedMarker = "\n\n--- THIS RESULT HAS BEEN SHORTENED ---\n\n"

// Classify inspects raw output text. Any case-insensitive occurrence of
// "error" marks the run as failed, including legitimate program output
// that happens to contain the word.
func Classify(rawText string) RunResult {
	if len(rawText) == 0 {
		return RunResult{Status: StatusEmpty}
	}
	if strings.Contains(strings.ToLower(rawText), "error") {
		return RunResult{Status: StatusError, RawText: rawText}
	}
	return RunResult{Status: StatusSuccess, RawText: rawText}
}

// ClassifyResponse classifies a response, treating any transport error as a
// TransportFailure with no text.
func ClassifyResponse(rawText string, transportErr error) RunResult {
	if transportErr != nil {
		return RunResult{Status: StatusTransportFailure}
	}
	return Classify(rawText)
}

// Truncate shortens text longer than max runes so the result is exactly max
// runes long: the head and tail of the text around ShortenedMarker. It reports
// whether the text was shortened. A max of zero or less disables truncation.
func Truncate(text string, max int) (string, bool) {
	if max <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}

	marker := []rune(ShortenedMarker)
	keep := max - len(marker)
	if keep <= 0 {
		return string(runes[:max]), true
	}

	head := keep / 2
	tail := keep - head

	var b strings.Builder
	b.Grow(len(text))
	b.WriteString(string(runes[:head]))
	b.WriteString(ShortenedMarker)
	b.WriteString(string(runes[len(runes)-tail:]))
	return b.String(), true
}
