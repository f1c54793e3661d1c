// Package transport builds the *http.Client used against the upstream: fixed
// browser user agent, compressed responses, proxies and an optional browser
// TLS fingerprint.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"

	"github.com/adaiasmagdiel/metaai-go/internal/registry"
)

// Options configures New. The zero value is a direct, untimed client.
type Options struct {
	// ProxyURL accepts http, https, socks5 and socks5h schemes.
	ProxyURL string
	// TLSFingerprint selects a browser ClientHello: "chrome", "firefox",
	// "safari". Empty or "none" keeps crypto/tls.
	TLSFingerprint string
	// Timeout bounds a whole exchange including the body. Zero means none,
	// which is what long streams need.
	Timeout time.Duration
	// UserAgent overrides the default browser user agent.
	UserAgent string
}

// New builds a client from opts.
func New(opts Options) (*http.Client, error) {
	proxyURL, err := parseProxyURL(opts.ProxyURL)
	if err != nil {
		return nil, err
	}

	var base http.RoundTripper
	fingerprint := strings.ToLower(strings.TrimSpace(opts.TLSFingerprint))
	if fingerprint == "" || fingerprint == "none" {
		base, err = newStdTransport(proxyURL)
	} else {
		base, err = newFingerprintTransport(fingerprint, proxyURL)
	}
	if err != nil {
		return nil, err
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = registry.UserAgent
	}
	return &http.Client{
		Transport: &headerRoundTripper{base: base, userAgent: userAgent},
		Timeout:   opts.Timeout,
	}, nil
}

func parseProxyURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy url %q has no host", raw)
	}
	return u, nil
}

func isSOCKS(u *url.URL) bool {
	return u != nil && (u.Scheme == "socks5" || u.Scheme == "socks5h")
}

// dialContextFunc is the dialer shape shared by http.Transport and the
// fingerprint transport.
type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

func newDialer(proxyURL *url.URL) (dialContextFunc, error) {
	direct := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	if !isSOCKS(proxyURL) {
		return direct.DialContext, nil
	}
	dialer, err := proxy.FromURL(proxyURL, direct)
	if err != nil {
		return nil, fmt.Errorf("create socks5 dialer: %w", err)
	}
	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}, nil
	}
	log.Debugf("transport: using socks5 proxy %s", proxyURL.Host)
	return contextDialer.DialContext, nil
}

func newStdTransport(proxyURL *url.URL) (*http.Transport, error) {
	dial, err := newDialer(proxyURL)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dial
	// headerRoundTripper negotiates and decodes encodings itself.
	transport.DisableCompression = true
	transport.Proxy = nil
	if proxyURL != nil && !isSOCKS(proxyURL) {
		transport.Proxy = http.ProxyURL(proxyURL)
		log.Debugf("transport: using http proxy %s", proxyURL.Host)
	}
	return transport, nil
}

// headerRoundTripper applies the browser headers every upstream call carries
// and transparently decodes compressed bodies.
type headerRoundTripper struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", AcceptEncoding)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	decodeResponse(resp)
	return resp, nil
}
