// Package executor drives the Meta AI web protocol: session bootstrap, guest
// credential exchange, and blocking or streaming prompts with retries.
//
// An Executor owns its Session exclusively and is not safe for concurrent use.
package executor

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/adaiasmagdiel/metaai-go/internal/logging"
	"github.com/adaiasmagdiel/metaai-go/internal/registry"
	"github.com/adaiasmagdiel/metaai-go/internal/runtime/lines"
)

// Doer is the transport collaborator. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints overrides the upstream URLs; empty fields keep the defaults.
type Endpoints struct {
	Home  string
	API   string
	Graph string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.Home == "" {
		e.Home = registry.HomeURL
	}
	if e.API == "" {
		e.API = registry.APIURL
	}
	if e.Graph == "" {
		e.Graph = registry.GraphURL
	}
	return e
}

// Config configures an Executor.
type Config struct {
	// HTTPClient performs every request. Defaults to a plain *http.Client.
	HTTPClient Doer
	Endpoints  Endpoints
	// SessionCookie is an abra_sess cookie value. When set the executor runs
	// in authenticated mode and never requests a guest credential.
	SessionCookie string
}

// Executor is the protocol engine behind a client instance.
type Executor struct {
	client    Doer
	endpoints Endpoints
	session   Session

	retryDelay time.Duration
	tokenDelay time.Duration
	chunkSize  int
}

// NewExecutor builds an executor. It performs no I/O; call Bootstrap before
// prompting.
func NewExecutor(cfg Config) *Executor {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	cookie := strings.TrimSpace(cfg.SessionCookie)
	return &Executor{
		client:    client,
		endpoints: cfg.Endpoints.withDefaults(),
		session: Session{
			Authenticated: cookie != "",
			SessionCookie: cookie,
		},
		retryDelay: registry.RetryDelay,
		tokenDelay: registry.TokenSettleDelay,
		chunkSize:  lines.DefaultChunkSize,
	}
}

// Identifier names the upstream in logs.
func (e *Executor) Identifier() string { return "metaai" }

// Session returns a copy of the current session state.
func (e *Executor) Session() Session { return e.session }

func newFormRequest(ctx context.Context, endpoint, friendlyName, cookie string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", registry.UserAgent)
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("cookie", cookie)
	}
	req.Header.Set("sec-fetch-site", "same-origin")
	req.Header.Set("x-fb-friendly-name", friendlyName)
	return req, nil
}

func closeBody(ctx context.Context, body io.Closer) {
	if errClose := body.Close(); errClose != nil {
		logWithRequestID(ctx).Errorf("metaai executor: close response body error: %v", errClose)
	}
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func logWithRequestID(ctx context.Context) *log.Entry {
	return logging.FromContext(ctx)
}
