package lines

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
)

// chunkSource returns one scripted chunk per Read call.
type chunkSource struct {
	chunks []string
	err    error
}

func (c *chunkSource) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if c.chunks[0] == "" {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func collect(t *testing.T, r *Reader) []string {
	t.Helper()
	var out []string
	for r.Next() {
		out = append(out, r.Text())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestReaderReassemblesSplitLine(t *testing.T) {
	r := NewReader(&chunkSource{chunks: []string{"abc\nde", "f\nghi"}}, 0, "")
	got := collect(t, r)
	want := []string{"abc", "def", "ghi"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestReaderFlushesFinalPartialLine(t *testing.T) {
	r := NewReader(strings.NewReader("one\ntwo"), 0, "")
	got := collect(t, r)
	if !slices.Equal(got, []string{"one", "two"}) {
		t.Fatalf("expected [one two], got %q", got)
	}
}

func TestReaderTrailingDelimiter(t *testing.T) {
	r := NewReader(strings.NewReader("one\ntwo\n"), 0, "")
	got := collect(t, r)
	if !slices.Equal(got, []string{"one", "two"}) {
		t.Fatalf("expected [one two], got %q", got)
	}
}

func TestReaderKeepsInteriorEmptyLines(t *testing.T) {
	r := NewReader(strings.NewReader("a\n\nb"), 0, "")
	got := collect(t, r)
	if !slices.Equal(got, []string{"a", "", "b"}) {
		t.Fatalf("expected [a  b], got %q", got)
	}
}

func TestReaderByteSizedChunks(t *testing.T) {
	input := "first line\nsecond\r\n{\"json\":true}\nlast"
	r := NewReader(strings.NewReader(input), 1, "")
	got := collect(t, r)
	want := strings.Split(input, "\n")
	if !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if strings.Join(got, "\n") != input {
		t.Fatal("bytes were dropped or duplicated")
	}
}

func TestReaderMultiByteDelimiterAcrossChunks(t *testing.T) {
	r := NewReader(&chunkSource{chunks: []string{"a\r", "\nb\r\nc"}}, 4, "\r\n")
	got := collect(t, r)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected [a b c], got %q", got)
	}
}

func TestReaderEmptySource(t *testing.T) {
	r := NewReader(strings.NewReader(""), 0, "")
	if r.Next() {
		t.Fatalf("expected no lines, got %q", r.Text())
	}
	if r.Next() {
		t.Fatal("exhausted reader must stay exhausted")
	}
}

func TestReaderReadError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(&chunkSource{chunks: []string{"ok\npartial"}, err: boom}, 0, "")
	var got []string
	for r.Next() {
		got = append(got, r.Text())
	}
	if !slices.Equal(got, []string{"ok"}) {
		t.Fatalf("expected [ok], got %q", got)
	}
	if !errors.Is(r.Err(), boom) {
		t.Fatalf("expected boom, got %v", r.Err())
	}
}

func TestReaderAllStopsEarly(t *testing.T) {
	r := NewReader(strings.NewReader("a\nb\nc"), 0, "")
	for line := range r.All() {
		if line != "a" {
			t.Fatalf("expected a, got %q", line)
		}
		break
	}
	if !r.Next() || r.Text() != "b" {
		t.Fatalf("expected to resume at b, got %q", r.Text())
	}
}
