package sigil

import (
	"math"
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// Decode parses one complete JSON document into a Value tree. Every byte
// sequence maps to either a Value or a *DecodeError; malformed input never
// faults. The returned tree shares no storage with data.
func Decode(data []byte) (*Value, error) {
	return DecodeWithOptions(data, DecodeOptions{})
}

// DecodeWithOptions parses with explicit options.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*Value, error) {
	if bad := opts.Flags &^ decodeMask; bad != 0 {
		return nil, &DecodeError{
			Kind:    DecodeErrInvalidOptions,
			Message: "flags not valid for decoding",
			Pos:     Position{Line: 1, Column: 1},
		}
	}
	d := &decoder{
		data:     data,
		maxDepth: opts.maxDepth(),
		lenient:  opts.Flags.Has(OptAllowNonFinite),
	}

	i := d.skipWS(0)
	if i >= len(data) {
		return nil, d.errf(DecodeErrEmptyInput, i, "empty input")
	}
	v, i, err := d.value(i, 0)
	if err != nil {
		return nil, err
	}
	i = d.skipWS(i)
	if i < len(data) {
		return nil, d.errf(DecodeErrTrailingData, i, "trailing data after top-level value")
	}
	return v, nil
}

// decoder is a single forward pass over the input; it holds no state beyond
// the call.
type decoder struct {
	data     []byte
	maxDepth int
	lenient  bool
}

func (d *decoder) errf(kind DecodeErrorKind, offset int, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Message: msg, Pos: positionAt(d.data, offset)}
}

// skipWS advances past JSON whitespace: space, tab, CR, LF. Nothing else is
// skippable.
func (d *decoder) skipWS(i int) int {
	for i < len(d.data) {
		switch d.data[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// value parses any value starting at a non-whitespace byte. depth counts the
// containers already open.
func (d *decoder) value(i, depth int) (*Value, int, *DecodeError) {
	switch d.data[i] {
	case '{':
		return d.object(i, depth)
	case '[':
		return d.array(i, depth)
	case '"':
		s, next, err := d.stringLit(i)
		if err != nil {
			return nil, next, err
		}
		return Text(s), next, nil
	case 't':
		if d.lit(i, "true") {
			return Bool(true), i + 4, nil
		}
	case 'f':
		if d.lit(i, "false") {
			return Bool(false), i + 5, nil
		}
	case 'n':
		if d.lit(i, "null") {
			return Null(), i + 4, nil
		}
	case 'N':
		if d.lenient && d.lit(i, "NaN") {
			return Float(math.NaN()), i + 3, nil
		}
	case 'I':
		if d.lenient && d.lit(i, "Infinity") {
			return Float(math.Inf(1)), i + 8, nil
		}
	default:
		if d.data[i] == '-' || (d.data[i] >= '0' && d.data[i] <= '9') {
			if d.lenient && d.data[i] == '-' && d.lit(i+1, "Infinity") {
				return Float(math.Inf(-1)), i + 9, nil
			}
			return d.number(i)
		}
	}
	return nil, i, d.errf(DecodeErrSyntax, i, "unexpected character")
}

// lit reports whether the input at i spells out the given literal.
func (d *decoder) lit(i int, s string) bool {
	return len(d.data)-i >= len(s) && string(d.data[i:i+len(s)]) == s
}

// ============================================================
// Containers
// ============================================================

func (d *decoder) array(i, depth int) (*Value, int, *DecodeError) {
	if depth >= d.maxDepth {
		return nil, i, d.errf(DecodeErrDepth, i, "depth limit exceeded")
	}
	i++ // consume '['
	i = d.skipWS(i)
	if i >= len(d.data) {
		return nil, i, d.errf(DecodeErrSyntax, i, "unterminated array")
	}
	if d.data[i] == ']' {
		return Array(), i + 1, nil
	}

	var elems []*Value
	for {
		i = d.skipWS(i)
		if i >= len(d.data) {
			return nil, i, d.errf(DecodeErrSyntax, i, "unterminated array")
		}
		elem, next, err := d.value(i, depth+1)
		if err != nil {
			return nil, next, err
		}
		elems = append(elems, elem)
		i = d.skipWS(next)
		if i >= len(d.data) {
			return nil, i, d.errf(DecodeErrSyntax, i, "unterminated array")
		}
		switch d.data[i] {
		case ',':
			i++
		case ']':
			return Array(elems...), i + 1, nil
		default:
			return nil, i, d.errf(DecodeErrSyntax, i, "expected ',' or ']' in array")
		}
	}
}

func (d *decoder) object(i, depth int) (*Value, int, *DecodeError) {
	if depth >= d.maxDepth {
		return nil, i, d.errf(DecodeErrDepth, i, "depth limit exceeded")
	}
	i++ // consume '{'
	i = d.skipWS(i)
	if i >= len(d.data) {
		return nil, i, d.errf(DecodeErrSyntax, i, "unterminated object")
	}
	if d.data[i] == '}' {
		return Object(), i + 1, nil
	}

	var members []Member
	for {
		i = d.skipWS(i)
		if i >= len(d.data) {
			return nil, i, d.errf(DecodeErrSyntax, i, "unterminated object")
		}
		if d.data[i] != '"' {
			return nil, i, d.errf(DecodeErrSyntax, i, "object key must be a string")
		}
		key, next, err := d.stringLit(i)
		if err != nil {
			return nil, next, err
		}
		i = d.skipWS(next)
		if i >= len(d.data) || d.data[i] != ':' {
			return nil, i, d.errf(DecodeErrSyntax, i, "expected ':' after object key")
		}
		i = d.skipWS(i + 1)
		if i >= len(d.data) {
			return nil, i, d.errf(DecodeErrSyntax, i, "unterminated object")
		}
		val, next2, err := d.value(i, depth+1)
		if err != nil {
			return nil, next2, err
		}
		members = insertMember(members, key, val)
		i = d.skipWS(next2)
		if i >= len(d.data) {
			return nil, i, d.errf(DecodeErrSyntax, i, "unterminated object")
		}
		switch d.data[i] {
		case ',':
			i++
		case '}':
			return Object(members...), i + 1, nil
		default:
			return nil, i, d.errf(DecodeErrSyntax, i, "expected ',' or '}' in object")
		}
	}
}

// insertMember applies the duplicate-key rule: the last occurrence's value
// wins, but the key keeps the position of its first occurrence.
func insertMember(members []Member, key string, val *Value) []Member {
	for i := range members {
		if members[i].Key.strVal == key {
			members[i].Value = val
			return members
		}
	}
	return append(members, Field(key, val))
}

// ============================================================
// Strings
// ============================================================

// stringLit parses a string literal starting at the opening quote. The
// returned string is an owned copy. Raw UTF-8 is validated byte-exactly;
// escapes are resolved, including surrogate pairs.
func (d *decoder) stringLit(i int) (string, int, *DecodeError) {
	quote := i
	i++ // consume '"'
	start := i
	n := len(d.data)
	for i < n {
		c := d.data[i]
		if c == '"' {
			return string(d.data[start:i]), i + 1, nil
		}
		if c == '\\' {
			return d.stringSlow(quote)
		}
		if c < 0x20 {
			return "", i, d.errf(DecodeErrSyntax, i, "control character in string")
		}
		if c < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(d.data[i:])
		if r == utf8.RuneError && size == 1 {
			return "", i, d.errf(DecodeErrUTF8, i, "invalid UTF-8 in string")
		}
		i += size
	}
	return "", n, d.errf(DecodeErrSyntax, quote, "unterminated string")
}

// stringSlow re-parses a string containing escapes from its opening quote.
func (d *decoder) stringSlow(quote int) (string, int, *DecodeError) {
	i := quote + 1
	n := len(d.data)
	buf := make([]byte, 0, 16)
	for i < n {
		c := d.data[i]
		if c == '"' {
			return string(buf), i + 1, nil
		}
		if c < 0x20 {
			return "", i, d.errf(DecodeErrSyntax, i, "control character in string")
		}
		if c != '\\' {
			if c < utf8.RuneSelf {
				buf = append(buf, c)
				i++
				continue
			}
			r, size := utf8.DecodeRune(d.data[i:])
			if r == utf8.RuneError && size == 1 {
				return "", i, d.errf(DecodeErrUTF8, i, "invalid UTF-8 in string")
			}
			buf = append(buf, d.data[i:i+size]...)
			i += size
			continue
		}

		i++
		if i >= n {
			return "", i, d.errf(DecodeErrEscape, i, "unterminated escape sequence")
		}
		switch d.data[i] {
		case '"', '\\', '/':
			buf = append(buf, d.data[i])
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			r, size, err := d.unicodeEscape(i - 1)
			if err != nil {
				return "", i, err
			}
			buf = utf8.AppendRune(buf, r)
			i += size - 2 // land on the last escape byte; the loop steps past it
		default:
			return "", i, d.errf(DecodeErrEscape, i, "invalid escape character")
		}
		i++
	}
	return "", n, d.errf(DecodeErrSyntax, quote, "unterminated string")
}

// unicodeEscape decodes \uXXXX at i (the backslash), pairing surrogates.
// Returns the rune and the total byte length of the escape(s).
func (d *decoder) unicodeEscape(i int) (rune, int, *DecodeError) {
	r1, ok := d.hex4(i + 2)
	if !ok {
		return 0, 0, d.errf(DecodeErrEscape, i, "invalid unicode escape")
	}
	if r1 < 0xD800 || r1 > 0xDFFF {
		return r1, 6, nil
	}
	if r1 > 0xDBFF {
		return 0, 0, d.errf(DecodeErrSurrogate, i, "unpaired low surrogate")
	}
	// High surrogate: a low surrogate escape must follow immediately.
	j := i + 6
	if len(d.data)-j < 6 || d.data[j] != '\\' || d.data[j+1] != 'u' {
		return 0, 0, d.errf(DecodeErrSurrogate, i, "unpaired high surrogate")
	}
	r2, ok := d.hex4(j + 2)
	if !ok {
		return 0, 0, d.errf(DecodeErrEscape, j, "invalid unicode escape")
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, 0, d.errf(DecodeErrSurrogate, j, "expected low surrogate")
	}
	return 0x10000 + (r1-0xD800)<<10 + (r2 - 0xDC00), 12, nil
}

// hex4 reads four hex digits at i.
func (d *decoder) hex4(i int) (rune, bool) {
	if len(d.data)-i < 4 {
		return 0, false
	}
	var r rune
	for _, c := range d.data[i : i+4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return r, true
}

// ============================================================
// Numbers
// ============================================================

// number parses a numeric literal. Integral literals within the 64-bit range
// produce Int (preferring the unsigned extension past the signed maximum);
// anything with a fraction or exponent, or outside the 64-bit range, produces
// Float. Leading zeros other than a bare 0 are rejected.
func (d *decoder) number(i int) (*Value, int, *DecodeError) {
	start := i
	n := len(d.data)
	neg := false
	if d.data[i] == '-' {
		neg = true
		i++
	}
	if i >= n {
		return nil, i, d.errf(DecodeErrSyntax, i, "incomplete number")
	}
	switch {
	case d.data[i] == '0':
		i++
		if i < n && d.data[i] >= '0' && d.data[i] <= '9' {
			return nil, i, d.errf(DecodeErrSyntax, i, "leading zero in number")
		}
	case d.data[i] >= '1' && d.data[i] <= '9':
		for i < n && d.data[i] >= '0' && d.data[i] <= '9' {
			i++
		}
	default:
		return nil, i, d.errf(DecodeErrSyntax, i, "expected digit")
	}

	isFloat := false
	if i < n && d.data[i] == '.' {
		isFloat = true
		i++
		if i >= n || d.data[i] < '0' || d.data[i] > '9' {
			return nil, i, d.errf(DecodeErrSyntax, i, "expected digit after decimal point")
		}
		for i < n && d.data[i] >= '0' && d.data[i] <= '9' {
			i++
		}
	}
	if i < n && (d.data[i] == 'e' || d.data[i] == 'E') {
		isFloat = true
		i++
		if i < n && (d.data[i] == '+' || d.data[i] == '-') {
			i++
		}
		if i >= n || d.data[i] < '0' || d.data[i] > '9' {
			return nil, i, d.errf(DecodeErrSyntax, i, "expected digit in exponent")
		}
		for i < n && d.data[i] >= '0' && d.data[i] <= '9' {
			i++
		}
	}

	lit := b2s(d.data[start:i])
	if !isFloat {
		if neg {
			if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
				return Int(v), i, nil
			}
		} else {
			if v, err := strconv.ParseUint(lit, 10, 64); err == nil {
				if v <= maxInt64 {
					return Int(int64(v)), i, nil
				}
				return Uint(v), i, nil
			}
		}
		// Falls outside the 64-bit integer range: treat as float.
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && math.IsInf(f, 0) {
		return nil, start, d.errf(DecodeErrNumberRange, start, "number out of range")
	}
	return Float(f), i, nil
}

// b2s views bytes as a string without copying. Read-only use on input the
// decoder never mutates.
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
