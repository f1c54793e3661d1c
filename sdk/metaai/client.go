// Package metaai is a client for the unofficial Meta AI web API.
//
// A Client scrapes session tokens from the landing page when it is created,
// then sends prompts whose answers are returned whole (Prompt) or as a lazy
// stream of partial answers (PromptStream). A Client keeps the current
// conversation between prompts and is not safe for concurrent use.
package metaai

import (
	"context"
	"fmt"

	"github.com/adaiasmagdiel/metaai-go/internal/runtime/executor"
	"github.com/adaiasmagdiel/metaai-go/internal/transport"
)

type (
	// PromptResult is a complete answer or one streamed increment.
	PromptResult = executor.PromptResult
	// Source is reserved; answers currently carry no sources.
	Source = executor.Source
	// Media is reserved; answers currently carry no media.
	Media = executor.Media
	// Stream yields partial answers. Drain it or call Close.
	Stream = executor.Stream
	// Doer performs HTTP requests. *http.Client satisfies it.
	Doer = executor.Doer
	// Endpoints overrides the upstream URLs.
	Endpoints = executor.Endpoints
)

// Client talks to Meta AI on behalf of one session.
type Client struct {
	exec *executor.Executor
}

// New creates a client and bootstraps its session. In guest mode this
// includes the temporary-user handshake.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	client := o.httpClient
	if client == nil {
		httpClient, err := transport.New(o.transport)
		if err != nil {
			return nil, fmt.Errorf("metaai: build transport: %w", err)
		}
		client = httpClient
	}

	exec := executor.NewExecutor(executor.Config{
		HTTPClient:    client,
		Endpoints:     o.endpoints,
		SessionCookie: o.sessionCookie,
	})
	if err := exec.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return &Client{exec: exec}, nil
}

// Prompt sends message and returns the final answer.
func (c *Client) Prompt(ctx context.Context, message string, opts ...PromptOption) (*PromptResult, error) {
	po := applyPromptOptions(opts)
	return c.exec.Prompt(ctx, message, po.newConversation)
}

// PromptStream sends message and returns a stream of partial answers, each
// the full text composed so far.
func (c *Client) PromptStream(ctx context.Context, message string, opts ...PromptOption) (*Stream, error) {
	po := applyPromptOptions(opts)
	return c.exec.PromptStream(ctx, message, po.newConversation)
}

// Conversation returns the ids correlating the next prompt with the current
// conversation. Both are empty before the first answer.
func (c *Client) Conversation() (conversationID, threadingID string) {
	s := c.exec.Session()
	return s.ExternalConversationID, s.OfflineThreadingID
}

// Authenticated reports whether the client runs on a browser session cookie.
func (c *Client) Authenticated() bool {
	return c.exec.Session().Authenticated
}
