package sigil

import (
	"fmt"
	"unicode/utf8"
)

// Writer is a growable output buffer with UTF-8-safe append primitives.
// It knows nothing about value dispatch; the encoder drives it.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Reset empties the writer, keeping its backing storage.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Bytes returns the accumulated output. The slice is only valid until the
// next append.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Byte appends a single byte.
func (w *Writer) Byte(c byte) {
	w.buf = append(w.buf, c)
}

// Literal appends raw bytes without escaping.
func (w *Writer) Literal(s string) {
	w.buf = append(w.buf, s...)
}

// Indent appends a newline followed by depth levels of two-space indent.
func (w *Writer) Indent(depth int) {
	w.buf = append(w.buf, '\n')
	for i := 0; i < depth; i++ {
		w.buf = append(w.buf, ' ', ' ')
	}
}

const hexDigits = "0123456789abcdef"

// Quoted appends s as a JSON string, escaping '"', '\\', and control
// characters. Non-ASCII bytes pass through as raw UTF-8 and are validated on
// the way; invalid UTF-8 is an error, leaving the buffer flushed up to the
// offending byte (the caller discards on error).
func (w *Writer) Quoted(s string) error {
	w.buf = append(w.buf, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			if c < utf8.RuneSelf {
				i++
				continue
			}
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				return fmt.Errorf("invalid UTF-8 byte 0x%02x at index %d", c, i)
			}
			i += size
			continue
		}
		w.buf = append(w.buf, s[start:i]...)
		switch c {
		case '"':
			w.buf = append(w.buf, '\\', '"')
		case '\\':
			w.buf = append(w.buf, '\\', '\\')
		case '\b':
			w.buf = append(w.buf, '\\', 'b')
		case '\f':
			w.buf = append(w.buf, '\\', 'f')
		case '\n':
			w.buf = append(w.buf, '\\', 'n')
		case '\r':
			w.buf = append(w.buf, '\\', 'r')
		case '\t':
			w.buf = append(w.buf, '\\', 't')
		default:
			w.buf = append(w.buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
		start = i
	}
	w.buf = append(w.buf, s[start:]...)
	w.buf = append(w.buf, '"')
	return nil
}
