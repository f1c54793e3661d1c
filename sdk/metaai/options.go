package metaai

import (
	"time"

	"github.com/adaiasmagdiel/metaai-go/internal/runtime/executor"
	"github.com/adaiasmagdiel/metaai-go/internal/transport"
)

// Option configures New.
type Option func(*options)

type options struct {
	httpClient    executor.Doer
	transport     transport.Options
	endpoints     executor.Endpoints
	sessionCookie string
}

// WithHTTPClient replaces the default transport. Proxy, fingerprint and
// timeout options are ignored when it is set.
func WithHTTPClient(client Doer) Option {
	return func(o *options) { o.httpClient = client }
}

// WithProxy routes requests through an http, https or socks5 proxy.
func WithProxy(proxyURL string) Option {
	return func(o *options) { o.transport.ProxyURL = proxyURL }
}

// WithTLSFingerprint presents a browser TLS ClientHello: "chrome",
// "firefox" or "safari".
func WithTLSFingerprint(name string) Option {
	return func(o *options) { o.transport.TLSFingerprint = name }
}

// WithTimeout bounds every request including its body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.transport.Timeout = d }
}

// WithEndpoints overrides the upstream URLs.
func WithEndpoints(endpoints Endpoints) Option {
	return func(o *options) { o.endpoints = endpoints }
}

// WithSessionCookie runs the client authenticated with an abra_sess cookie
// value taken from a logged in browser.
func WithSessionCookie(cookie string) Option {
	return func(o *options) { o.sessionCookie = cookie }
}

// PromptOption configures a single prompt.
type PromptOption func(*promptOptions)

type promptOptions struct {
	newConversation bool
}

// WithNewConversation starts a fresh conversation for this prompt.
func WithNewConversation() PromptOption {
	return func(o *promptOptions) { o.newConversation = true }
}

func applyPromptOptions(opts []PromptOption) promptOptions {
	po := promptOptions{}
	for _, opt := range opts {
		opt(&po)
	}
	return po
}
