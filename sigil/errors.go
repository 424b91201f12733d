package sigil

import "fmt"

// Position is a byte location in decoder input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int // 0-based byte index
}

// String returns position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// positionAt computes the line/column of a byte offset. Called only on the
// error path, so a full rescan of the prefix is fine.
func positionAt(data []byte, offset int) Position {
	if offset > len(data) {
		offset = len(data)
	}
	line, col := 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col, Offset: offset}
}

// DecodeErrorKind categorizes decoder failures.
type DecodeErrorKind uint8

const (
	DecodeErrSyntax DecodeErrorKind = iota
	DecodeErrUTF8
	DecodeErrEscape
	DecodeErrSurrogate
	DecodeErrNumberRange
	DecodeErrTrailingData
	DecodeErrDepth
	DecodeErrEmptyInput
	DecodeErrInvalidOptions
)

// String returns the kind name.
func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeErrSyntax:
		return "syntax"
	case DecodeErrUTF8:
		return "utf8"
	case DecodeErrEscape:
		return "escape"
	case DecodeErrSurrogate:
		return "surrogate"
	case DecodeErrNumberRange:
		return "number range"
	case DecodeErrTrailingData:
		return "trailing data"
	case DecodeErrDepth:
		return "depth limit"
	case DecodeErrEmptyInput:
		return "empty input"
	case DecodeErrInvalidOptions:
		return "invalid options"
	default:
		return "unknown"
	}
}

// DecodeError reports a decoder failure with its byte location.
type DecodeError struct {
	Kind    DecodeErrorKind
	Message string
	Pos     Position
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sigil: %s at %s (offset %d)", e.Message, e.Pos, e.Pos.Offset)
}

// EncodeErrorKind categorizes encoder failures.
type EncodeErrorKind uint8

const (
	EncodeErrUnsupported EncodeErrorKind = iota
	EncodeErrHook
	EncodeErrIntegerRange
	EncodeErrTimeRange
	EncodeErrNonFinite
	EncodeErrCircular
	EncodeErrDepth
	EncodeErrUTF8
	EncodeErrKeyType
	EncodeErrNumericArray
	EncodeErrInvalidOptions
)

// String returns the kind name.
func (k EncodeErrorKind) String() string {
	switch k {
	case EncodeErrUnsupported:
		return "unsupported type"
	case EncodeErrHook:
		return "hook failed"
	case EncodeErrIntegerRange:
		return "integer out of range"
	case EncodeErrTimeRange:
		return "timestamp out of range"
	case EncodeErrNonFinite:
		return "non-finite float"
	case EncodeErrCircular:
		return "circular reference"
	case EncodeErrDepth:
		return "depth limit"
	case EncodeErrUTF8:
		return "invalid utf8"
	case EncodeErrKeyType:
		return "invalid key type"
	case EncodeErrNumericArray:
		return "invalid numeric array"
	case EncodeErrInvalidOptions:
		return "invalid options"
	default:
		return "unknown"
	}
}

// EncodeError reports an encoder failure. TypeName names the offending
// value's kind where one exists.
type EncodeError struct {
	Kind     EncodeErrorKind
	Message  string
	TypeName string
}

func (e *EncodeError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("sigil: %s: %s", e.TypeName, e.Message)
	}
	return "sigil: " + e.Message
}

func encodeErrf(kind EncodeErrorKind, typeName, format string, args ...any) *EncodeError {
	return &EncodeError{Kind: kind, Message: fmt.Sprintf(format, args...), TypeName: typeName}
}
