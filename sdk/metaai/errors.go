package metaai

import (
	"errors"

	"github.com/adaiasmagdiel/metaai-go/internal/runtime/executor"
)

// Errors returned by the client; compare with errors.Is.
var (
	ErrMissingToken        = executor.ErrMissingToken
	ErrUpstreamUnavailable = executor.ErrUpstreamUnavailable
	ErrStreamRejected      = executor.ErrStreamRejected
	ErrNoFinalResponse     = executor.ErrNoFinalResponse
	ErrRetriesExhausted    = executor.ErrRetriesExhausted
)

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var sErr interface{ StatusCode() int }
	if errors.As(err, &sErr) {
		return sErr.StatusCode()
	}
	return 0
}
