package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adaiasmagdiel/metaai-go/internal/logging"
	"github.com/adaiasmagdiel/metaai-go/internal/registry"
	"github.com/adaiasmagdiel/metaai-go/internal/runtime/lines"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/from_ir"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/ir"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/to_ir"
)

// PromptRequest is one logical prompt call.
type PromptRequest struct {
	Message         string
	Stream          bool
	NewConversation bool
	// Attempt counts resubmissions made by the retry policy.
	Attempt int
}

// PromptResult is a complete answer or one streamed increment.
type PromptResult struct {
	Message string `json:"message"`
	// Sources and Media are reserved and currently always empty.
	Sources []Source `json:"sources"`
	Media   []Media  `json:"media"`
}

// Source is a web reference attached to an answer.
type Source struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// Media is a generated image or video attached to an answer.
type Media struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

func newPromptResult(text string) *PromptResult {
	return &PromptResult{Message: text, Sources: []Source{}, Media: []Media{}}
}

// Prompt sends message and waits for the final answer.
func (e *Executor) Prompt(ctx context.Context, message string, newConversation bool) (*PromptResult, error) {
	ctx = ensureRequestID(ctx)
	req := PromptRequest{Message: message, NewConversation: newConversation}
	return withRetry(ctx, e, req, e.submitBlocking)
}

// PromptStream sends message and returns a lazy stream of partial answers.
// The caller must drain or Close the stream.
func (e *Executor) PromptStream(ctx context.Context, message string, newConversation bool) (*Stream, error) {
	ctx = ensureRequestID(ctx)
	req := PromptRequest{Message: message, Stream: true, NewConversation: newConversation}
	return withRetry(ctx, e, req, e.submitStream)
}

func ensureRequestID(ctx context.Context) context.Context {
	if logging.RequestID(ctx) != "" {
		return ctx
	}
	return logging.WithRequestID(ctx, uuid.NewString())
}

// withRetry resubmits req while submit fails with a retryable error, waiting
// between attempts, up to registry.MaxRetries resubmissions.
func withRetry[T any](ctx context.Context, e *Executor, req PromptRequest, submit func(context.Context, PromptRequest) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		req.Attempt = attempt
		out, err := submit(ctx, req)
		if err == nil || !retryable(err) {
			return out, err
		}
		if attempt >= registry.MaxRetries {
			var zero T
			return zero, fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, attempt+1, err)
		}

		logWithRequestID(ctx).Warnf("metaai executor: unable to obtain a valid response, retrying (attempt %d/%d): %v", attempt+1, registry.MaxRetries, err)
		if errWait := wait(ctx, e.retryDelay); errWait != nil {
			var zero T
			return zero, errWait
		}
		// The conversation started by the first attempt is kept.
		req.NewConversation = false
	}
}

// dispatch builds and sends the send-message mutation for req.
func (e *Executor) dispatch(ctx context.Context, req PromptRequest) (*http.Response, error) {
	if req.NewConversation || e.session.ExternalConversationID == "" {
		e.session.ExternalConversationID = ir.NewConversationID()
	}

	send := ir.SendRequest{
		Message:                req.Message,
		ExternalConversationID: e.session.ExternalConversationID,
		OfflineThreadingID:     ir.NewOfflineThreadingID(),
	}
	endpoint := e.endpoints.Graph
	cookie := e.session.IdentityCookie()
	if e.session.Authenticated {
		send.FBDtsg = e.session.FBDtsg
		endpoint = e.endpoints.API
		cookie = registry.SessionCookie + "=" + e.session.SessionCookie
	} else {
		send.AccessToken = e.session.AccessToken
	}

	form, err := from_ir.SendMessageForm(send)
	if err != nil {
		return nil, fmt.Errorf("build send request: %w", err)
	}
	if err = e.session.requireIdentity(); err != nil {
		return nil, err
	}

	httpReq, err := newFormRequest(ctx, endpoint, registry.SendMessageFriendlyName, cookie, form)
	if err != nil {
		return nil, err
	}
	logWithRequestID(ctx).Debugf("metaai executor: send message (stream=%t, attempt=%d, conversation=%s)", req.Stream, req.Attempt, send.ExternalConversationID)

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return httpResp, nil
}

// submitBlocking buffers the whole answer and returns its last OVERALL_DONE message.
func (e *Executor) submitBlocking(ctx context.Context, req PromptRequest) (*PromptResult, error) {
	httpResp, err := e.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	data, errRead := io.ReadAll(httpResp.Body)
	closeBody(ctx, httpResp.Body)
	if errRead != nil {
		return nil, fmt.Errorf("read response: %w", errRead)
	}

	var final *ir.Message
	for _, line := range bytes.Split(data, []byte(lines.DefaultDelimiter)) {
		msg, ok := to_ir.ParseMessage(line)
		if !ok {
			continue
		}
		e.session.updateCorrelation(msg)
		if msg.StreamingState == registry.StreamingStateDone {
			final = &msg
		}
	}

	if final == nil {
		if !isSuccess(httpResp.StatusCode) {
			return nil, fmt.Errorf("%w: %w", ErrNoFinalResponse, newStatusErr(httpResp.StatusCode, data))
		}
		return nil, ErrNoFinalResponse
	}
	return newPromptResult(final.Text), nil
}

// submitStream checks the first line for an upstream error and hands the
// rest of the body to a Stream.
func (e *Executor) submitStream(ctx context.Context, req PromptRequest) (*Stream, error) {
	httpResp, err := e.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(httpResp.StatusCode) {
		data, _ := io.ReadAll(httpResp.Body)
		closeBody(ctx, httpResp.Body)
		return nil, fmt.Errorf("%w: %w", ErrStreamRejected, newStatusErr(httpResp.StatusCode, data))
	}

	reader := lines.NewReader(httpResp.Body, e.chunkSize, lines.DefaultDelimiter)
	first, errFirst := readFirstLine(reader)
	if errFirst != nil {
		closeBody(ctx, httpResp.Body)
		return nil, errFirst
	}

	msg, ok := to_ir.ParseMessage([]byte(first))
	if !ok || msg.HasErrors {
		closeBody(ctx, httpResp.Body)
		return nil, fmt.Errorf("%w: %s", ErrStreamRejected, abbreviate(first))
	}
	e.session.updateCorrelation(msg)

	return &Stream{
		ctx:     ctx,
		body:    httpResp.Body,
		lines:   reader,
		session: &e.session,
	}, nil
}

// readFirstLine returns the first non-blank line of the stream.
func readFirstLine(reader *lines.Reader) (string, error) {
	for reader.Next() {
		if line := reader.Text(); strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
	if err := reader.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	return "", fmt.Errorf("%w: empty stream", ErrStreamRejected)
}

func abbreviate(s string) string {
	const limit = 256
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
