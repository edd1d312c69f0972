package core

// streaming.go provides the reader chain applied to an observation file
// before it reaches the CSV parser:
//
//   - skipBOM: drops a leading UTF-8 BOM written by spreadsheet exports
//   - utf8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - sizeLimitReader: fails once more than the configured bytes are read
//
// Use wrapSource to apply all of them in the right order.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader that omits a leading UTF-8 BOM, if present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer rewrites invalid UTF-8 bytes to '?' as they stream through.
// A multi-byte sequence split across reads is held back until it completes.
type utf8Sanitizer struct {
	r       io.Reader
	chunk   []byte // read buffer, reused
	pending []byte // incomplete trailing sequence from the previous chunk
	out     []byte // sanitized bytes not yet returned
	err     error  // sticky error from r
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, chunk: make([]byte, 4096)}
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads the next chunk and sanitizes it into out.
func (s *utf8Sanitizer) fill() {
	n, err := s.r.Read(s.chunk)
	data := append(s.pending, s.chunk[:n]...)
	s.pending = nil
	s.err = err
	s.out = s.sanitize(data, err != nil)
}

// sanitize fixes data in place and returns the bytes ready to emit.
// Unless atEOF, an incomplete trailing sequence is moved to pending.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) []byte {
	if utf8.Valid(data) {
		return data
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(data[read:]) {
				s.pending = append([]byte(nil), data[read:]...)
				return data[:write]
			}
			data[write] = '?'
			write++
			read++
			continue
		}

		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return data[:write]
}

// errFileTooLarge is returned once a source exceeds its size limit.
var errFileTooLarge = errors.New("file too large")

// sizeLimitReader counts bytes and fails once the limit is exceeded.
// A limit of 0 disables the check.
type sizeLimitReader struct {
	r     io.Reader
	limit int64
	read  int64
}

// Read implements io.Reader.
func (l *sizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.limit > 0 && l.read > l.limit {
		return n, fmt.Errorf("%w: more than %d bytes", errFileTooLarge, l.limit)
	}
	return n, err
}

// wrapSource applies BOM skipping, UTF-8 sanitization and the size limit.
// The BOM must be stripped before sanitizing; counting sees raw bytes.
func wrapSource(r io.Reader, limit int64) io.Reader {
	return newUTF8Sanitizer(skipBOM(&sizeLimitReader{r: r, limit: limit}))
}
