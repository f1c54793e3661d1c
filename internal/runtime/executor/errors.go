package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken reports a session token that bootstrap could not
	// recover. It is a configuration failure and is never retried.
	ErrMissingToken = errors.New("metaai: required session token missing")

	// ErrUpstreamUnavailable reports a handshake response that is not the
	// expected JSON, which usually means the service is blocked in the
	// caller's region.
	ErrUpstreamUnavailable = errors.New("metaai: unable to receive a valid response from Meta AI; " +
		"this is likely due to your region being blocked, try manually accessing https://www.meta.ai/ to confirm")

	// ErrStreamRejected reports an error on the first streamed line.
	ErrStreamRejected = errors.New("metaai: stream rejected by upstream")

	// ErrNoFinalResponse reports a blocking answer without an OVERALL_DONE message.
	ErrNoFinalResponse = errors.New("metaai: no final response")

	// ErrRetriesExhausted is returned once every retry failed.
	ErrRetriesExhausted = errors.New("metaai: unable to obtain a valid response from Meta AI, try again later")
)

// retryable reports whether err is handled by the prompt retry policy.
func retryable(err error) bool {
	return errors.Is(err, ErrStreamRejected) || errors.Is(err, ErrNoFinalResponse)
}

const maxStatusErrBody = 512

type statusErr struct {
	code int
	msg  string
}

func newStatusErr(code int, body []byte) statusErr {
	msg := string(body)
	if len(msg) > maxStatusErrBody {
		msg = msg[:maxStatusErrBody] + "..."
	}
	return statusErr{code: code, msg: msg}
}

func (e statusErr) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("status %d: %s", e.code, e.msg)
	}
	return fmt.Sprintf("status %d", e.code)
}

// StatusCode returns the upstream HTTP status.
func (e statusErr) StatusCode() int { return e.code }
