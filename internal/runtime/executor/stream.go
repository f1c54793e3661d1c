package executor

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/adaiasmagdiel/metaai-go/internal/runtime/lines"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/to_ir"
)

// Stream yields the partial answers of a streaming prompt. It is pull driven:
// every call to Next may block on the network. A Stream is single pass.
type Stream struct {
	ctx     context.Context
	body    io.ReadCloser
	lines   *lines.Reader
	session *Session

	current *PromptResult
	err     error
	closed  bool
}

// Next advances to the next non-empty partial answer. It returns false at the
// end of the stream or on a read error, and closes the body in both cases.
func (s *Stream) Next() bool {
	if s.closed {
		return false
	}
	for s.lines.Next() {
		line := s.lines.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		msg, ok := to_ir.ParseMessage([]byte(line))
		if !ok {
			continue
		}
		s.session.updateCorrelation(msg)
		if msg.Text == "" {
			continue
		}
		s.current = newPromptResult(msg.Text)
		return true
	}
	if err := s.lines.Err(); err != nil {
		s.err = fmt.Errorf("read stream: %w", err)
	}
	s.current = nil
	if errClose := s.Close(); errClose != nil {
		logWithRequestID(s.ctx).Errorf("metaai executor: close response body error: %v", errClose)
	}
	return false
}

// Result returns the answer produced by the last successful Next.
func (s *Stream) Result() *PromptResult {
	return s.current
}

// Err returns the read error that ended the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// All ranges over the remaining answers. A read error is yielded once as the
// final pair; breaking out of the loop closes the stream.
func (s *Stream) All() iter.Seq2[*PromptResult, error] {
	return func(yield func(*PromptResult, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Result(), nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}
