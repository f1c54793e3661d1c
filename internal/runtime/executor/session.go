package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/adaiasmagdiel/metaai-go/internal/registry"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/from_ir"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/ir"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/to_ir"
)

// Session is the in-memory state of one client instance.
type Session struct {
	registry.Tokens

	// AccessToken is the guest credential, empty until the handshake succeeds.
	AccessToken string

	Authenticated bool
	SessionCookie string

	ExternalConversationID string
	OfflineThreadingID     string
}

// requireIdentity enforces that the identity and CSRF tokens are present.
func (s *Session) requireIdentity() error {
	if missing := s.MissingIdentity(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingToken, strings.Join(missing, ", "))
	}
	return nil
}

// updateCorrelation records the conversation ids carried by msg, if any.
func (s *Session) updateCorrelation(msg ir.Message) {
	conversationID, threadingID, ok := msg.Correlation()
	if !ok {
		return
	}
	s.ExternalConversationID = conversationID
	s.OfflineThreadingID = threadingID
}

// Bootstrap scrapes the session tokens from the landing page and, for guest
// sessions, exchanges them for an access credential.
func (e *Executor) Bootstrap(ctx context.Context) error {
	page, err := e.fetchLandingPage(ctx)
	if err != nil {
		return err
	}

	e.session.Tokens = registry.ExtractTokens(page)
	if err = e.session.requireIdentity(); err != nil {
		return err
	}

	if e.session.Authenticated {
		if e.session.FBDtsg == "" {
			return fmt.Errorf("%w: %s", ErrMissingToken, registry.TokenFBDtsg)
		}
		logWithRequestID(ctx).Debug("metaai executor: authenticated session ready")
		return nil
	}
	return e.ensureAccessToken(ctx)
}

func (e *Executor) fetchLandingPage(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoints.Home, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("User-Agent", registry.UserAgent)
	if e.session.Authenticated {
		httpReq.Header.Set("cookie", registry.SessionCookie+"="+e.session.SessionCookie)
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fetch landing page: %w", err)
	}
	data, errRead := io.ReadAll(httpResp.Body)
	closeBody(ctx, httpResp.Body)
	if errRead != nil {
		return "", fmt.Errorf("read landing page: %w", errRead)
	}
	if !isSuccess(httpResp.StatusCode) {
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, newStatusErr(httpResp.StatusCode, data))
	}
	return string(data), nil
}

// ensureAccessToken acquires a guest credential unless one is already held.
func (e *Executor) ensureAccessToken(ctx context.Context) error {
	if e.session.AccessToken != "" {
		return nil
	}
	token, err := e.acquireAccessToken(ctx)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: access_token", ErrMissingToken)
	}
	e.session.AccessToken = token
	return nil
}

// acquireAccessToken runs the temporary-user TOS mutation. A well formed
// response without a credential yields "", leaving validation to the caller.
func (e *Executor) acquireAccessToken(ctx context.Context) (string, error) {
	if err := e.session.requireIdentity(); err != nil {
		return "", err
	}
	form, err := from_ir.AcceptTOSForm(e.session.LSD)
	if err != nil {
		return "", fmt.Errorf("build tos request: %w", err)
	}
	httpReq, err := newFormRequest(ctx, e.endpoints.API, registry.AcceptTOSFriendlyName, e.session.IdentityCookie(), form)
	if err != nil {
		return "", err
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("accept tos: %w", err)
	}
	data, errRead := io.ReadAll(httpResp.Body)
	closeBody(ctx, httpResp.Body)
	if errRead != nil {
		return "", fmt.Errorf("read tos response: %w", errRead)
	}
	if !gjson.ValidBytes(data) {
		if !isSuccess(httpResp.StatusCode) {
			return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, newStatusErr(httpResp.StatusCode, data))
		}
		return "", ErrUpstreamUnavailable
	}

	token := to_ir.AccessToken(data)

	// The upstream rejects calls issued too soon after cookie issuance.
	if errWait := wait(ctx, e.tokenDelay); errWait != nil {
		return "", errWait
	}
	return token, nil
}
