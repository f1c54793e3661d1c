package transport

import (
	"context"
	stdtls "crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

var errNotHTTP2 = errors.New("transport: upstream did not negotiate h2")

var clientHellos = map[string]tls.ClientHelloID{
	"chrome":  tls.HelloChrome_Auto,
	"firefox": tls.HelloFirefox_Auto,
	"safari":  tls.HelloSafari_Auto,
}

// newFingerprintTransport speaks HTTP/2 over a uTLS connection that presents
// a browser ClientHello. HTTP proxies are not supported here because the
// CONNECT tunnel would need its own handshake plumbing; socks5 works.
func newFingerprintTransport(fingerprint string, proxyURL *url.URL) (http.RoundTripper, error) {
	helloID, ok := clientHellos[fingerprint]
	if !ok {
		return nil, fmt.Errorf("unknown tls fingerprint %q", fingerprint)
	}
	if proxyURL != nil && !isSOCKS(proxyURL) {
		return nil, fmt.Errorf("tls fingerprint %q requires a socks5 proxy, got %s", fingerprint, proxyURL.Scheme)
	}
	dial, err := newDialer(proxyURL)
	if err != nil {
		return nil, err
	}

	return &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, cfg *stdtls.Config) (net.Conn, error) {
			return dialUTLS(ctx, dial, helloID, network, addr, cfg)
		},
		DisableCompression: true,
	}, nil
}

func dialUTLS(ctx context.Context, dial dialContextFunc, helloID tls.ClientHelloID, network, addr string, cfg *stdtls.Config) (net.Conn, error) {
	rawConn, err := dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	serverName := cfg.ServerName
	if serverName == "" {
		if host, _, errSplit := net.SplitHostPort(addr); errSplit == nil {
			serverName = host
		}
	}
	conn := tls.UClient(rawConn, &tls.Config{
		ServerName: serverName,
		NextProtos: []string{http2.NextProtoTLS},
	}, helloID)
	if err = conn.HandshakeContext(ctx); err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("utls handshake: %w", err)
	}
	if proto := conn.ConnectionState().NegotiatedProtocol; proto != http2.NextProtoTLS {
		_ = conn.Close()
		return nil, fmt.Errorf("%w (got %q)", errNotHTTP2, proto)
	}
	return conn, nil
}
