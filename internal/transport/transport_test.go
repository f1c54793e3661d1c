package transport

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/adaiasmagdiel/metaai-go/internal/registry"
)

const payload = "{\"data\":1}\n{\"data\":2}\n"

func encode(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		w = enc
	default:
		return data
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write %s: %v", encoding, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close %s: %v", encoding, err)
	}
	return buf.Bytes()
}

func TestClientDecodesResponses(t *testing.T) {
	for _, encoding := range []string{"gzip", "deflate", "br", "zstd", ""} {
		t.Run("encoding="+encoding, func(t *testing.T) {
			body := encode(t, encoding, []byte(payload))
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept-Encoding"); got != AcceptEncoding {
					t.Errorf("expected Accept-Encoding %q, got %q", AcceptEncoding, got)
				}
				if encoding != "" {
					w.Header().Set("Content-Encoding", encoding)
				}
				_, _ = w.Write(body)
			}))
			defer srv.Close()

			client, err := New(Options{})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			resp, err := client.Get(srv.URL)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			defer resp.Body.Close()

			got, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(got) != payload {
				t.Fatalf("expected %q, got %q", payload, got)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Fatal("expected Content-Encoding to be removed after decoding")
			}
		})
	}
}

func TestClientUserAgent(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	client, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom/1.0")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Body.Close()

	if len(seen) != 2 || seen[0] != registry.UserAgent || seen[1] != "custom/1.0" {
		t.Fatalf("unexpected user agents %q", seen)
	}
}

func TestClientThroughHTTPProxy(t *testing.T) {
	var proxied string
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.String()
		_, _ = w.Write([]byte("via proxy"))
	}))
	defer proxySrv.Close()

	client, err := New(Options{ProxyURL: proxySrv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := client.Get("http://upstream.invalid/page")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	got, _ := io.ReadAll(resp.Body)
	if string(got) != "via proxy" {
		t.Fatalf("expected proxied body, got %q", got)
	}
	if proxied != "http://upstream.invalid/page" {
		t.Fatalf("expected absolute-form request at proxy, got %q", proxied)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want string
	}{
		{name: "scheme", opts: Options{ProxyURL: "ftp://proxy:21"}, want: "unsupported proxy scheme"},
		{name: "host", opts: Options{ProxyURL: "socks5://"}, want: "has no host"},
		{name: "fingerprint", opts: Options{TLSFingerprint: "netscape"}, want: "unknown tls fingerprint"},
		{name: "fingerprint over http proxy", opts: Options{TLSFingerprint: "chrome", ProxyURL: "http://proxy:8080"}, want: "requires a socks5 proxy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewAcceptsFingerprintAndSocks(t *testing.T) {
	client, err := New(Options{TLSFingerprint: "Chrome", ProxyURL: "socks5h://127.0.0.1:1080", Timeout: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Timeout != time.Minute {
		t.Fatalf("expected timeout 1m, got %s", client.Timeout)
	}
	rt, ok := client.Transport.(*headerRoundTripper)
	if !ok {
		t.Fatalf("expected headerRoundTripper, got %T", client.Transport)
	}
	if _, isStd := rt.base.(*http.Transport); isStd {
		t.Fatal("expected a fingerprinting transport")
	}
}
