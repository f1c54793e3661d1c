package transport

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding lists every content coding the client can decode.
const AcceptEncoding = "gzip, deflate, br, zstd"

// decodeResponse swaps resp.Body for a decoding reader when the upstream
// compressed it. Unknown codings are left untouched.
func decodeResponse(resp *http.Response) {
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return
	}
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip", "x-gzip", "deflate", "br", "zstd":
	default:
		return
	}
	resp.Body = &decodingBody{raw: resp.Body, encoding: encoding}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
}

// decodingBody creates its decoder on first Read so that building a
// response never blocks on the network.
type decodingBody struct {
	raw      io.ReadCloser
	encoding string
	decoder  io.Reader
	closer   func()
	err      error
}

func (b *decodingBody) init() error {
	if b.decoder != nil || b.err != nil {
		return b.err
	}
	switch b.encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(b.raw)
		if err != nil {
			b.err = fmt.Errorf("gzip: %w", err)
			return b.err
		}
		b.decoder, b.closer = zr, func() { _ = zr.Close() }
	case "deflate":
		zr, err := zlib.NewReader(b.raw)
		if err != nil {
			b.err = fmt.Errorf("deflate: %w", err)
			return b.err
		}
		b.decoder, b.closer = zr, func() { _ = zr.Close() }
	case "br":
		b.decoder = brotli.NewReader(b.raw)
	case "zstd":
		dec, err := zstd.NewReader(b.raw)
		if err != nil {
			b.err = fmt.Errorf("zstd: %w", err)
			return b.err
		}
		b.decoder, b.closer = dec, dec.Close
	}
	return nil
}

func (b *decodingBody) Read(p []byte) (int, error) {
	if err := b.init(); err != nil {
		return 0, err
	}
	return b.decoder.Read(p)
}

func (b *decodingBody) Close() error {
	if b.closer != nil {
		b.closer()
	}
	return b.raw.Close()
}
