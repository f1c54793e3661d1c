// Package lines splits a byte stream into delimiter separated lines while
// reading it in fixed size chunks.
package lines

import (
	"errors"
	"io"
	"iter"
	"strings"
)

const (
	DefaultChunkSize = 512
	DefaultDelimiter = "\n"
)

// Reader is a single-pass, pull driven line iterator in the style of
// bufio.Scanner. A line whose bytes straddle two chunks is held pending and
// reassembled with the next chunk; the pending tail is emitted once at EOF.
type Reader struct {
	src       io.Reader
	chunk     []byte
	delim     string
	pending   string
	ready     []string
	line      string
	err       error
	exhausted bool
}

// NewReader wraps r. Zero chunkSize or empty delim select the defaults.
func NewReader(r io.Reader, chunkSize int, delim string) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if delim == "" {
		delim = DefaultDelimiter
	}
	return &Reader{
		src:   r,
		chunk: make([]byte, chunkSize),
		delim: delim,
	}
}

// Next advances to the next line. It returns false once the source is
// exhausted or a read fails; Err distinguishes the two.
func (r *Reader) Next() bool {
	for len(r.ready) == 0 {
		if r.exhausted {
			return false
		}
		r.fill()
	}
	r.line = r.ready[0]
	r.ready = r.ready[1:]
	return true
}

// Text returns the line produced by the last call to Next.
func (r *Reader) Text() string {
	return r.line
}

// Err returns the first non-EOF read error.
func (r *Reader) Err() error {
	return r.err
}

// All exposes the remaining lines as an iterator. Stopping early leaves the
// Reader positioned after the last yielded line.
func (r *Reader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for r.Next() {
			if !yield(r.Text()) {
				return
			}
		}
	}
}

// fill reads one chunk and moves every complete line into ready.
func (r *Reader) fill() {
	n, errRead := r.src.Read(r.chunk)
	if n > 0 {
		data := r.pending + string(r.chunk[:n])
		parts := strings.Split(data, r.delim)
		// The last part has no delimiter after it yet.
		r.pending = parts[len(parts)-1]
		r.ready = append(r.ready, parts[:len(parts)-1]...)
	}
	if errRead == nil {
		return
	}
	r.exhausted = true
	if !errors.Is(errRead, io.EOF) {
		r.err = errRead
		return
	}
	if r.pending != "" {
		r.ready = append(r.ready, r.pending)
		r.pending = ""
	}
}
