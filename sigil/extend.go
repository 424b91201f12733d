package sigil

import (
	"fmt"
	"slices"
	"time"
)

// ============================================================
// Type Adapter Registry
// ============================================================
//
// Each extended kind owns a fixed canonical JSON projection, registered here
// as a (recognizer, encoder) pair at build time. Adapters are consulted
// strictly after primitive dispatch and before the hook; a disabled or
// passed-through adapter falls to the hook.

type adapter struct {
	kind        Kind
	enabled     func(Opt) bool
	passthrough func(Opt) bool
	encode      func(*encoder, *Writer, *Value, int) error
}

func always(Opt) bool { return true }
func never(Opt) bool  { return false }

// Populated in init rather than a composite literal: the encoder functions
// reach back into adapters through (*encoder).extended, which would otherwise
// form an initialization cycle.
var adapters []adapter

func init() {
	adapters = []adapter{
		{
			kind:        KindTime,
			enabled:     always,
			passthrough: func(o Opt) bool { return o.Has(OptPassthroughTime) },
			encode:      encodeTimeValue,
		},
		{
			kind:        KindUUID,
			enabled:     func(o Opt) bool { return o.Has(OptSerializeUUID) },
			passthrough: never,
			encode:      encodeUUIDValue,
		},
		{
			kind:        KindEnum,
			enabled:     always,
			passthrough: func(o Opt) bool { return o.Has(OptPassthroughEnum) },
			encode:      encodeEnumValue,
		},
		{
			kind:        KindRecord,
			enabled:     func(o Opt) bool { return o.Has(OptSerializeRecord) },
			passthrough: never,
			encode:      encodeRecordValue,
		},
		{
			kind:        KindNumeric,
			enabled:     func(o Opt) bool { return o.Has(OptSerializeNumeric) },
			passthrough: never,
			encode:      encodeNumericValue,
		},
	}
}

// extended dispatches a non-primitive value through the adapter registry.
// Unrecognized kinds (Foreign) go straight to the hook.
func (e *encoder) extended(w *Writer, v *Value, depth int) error {
	for i := range adapters {
		a := &adapters[i]
		if a.kind != v.kind {
			continue
		}
		if !a.enabled(e.flags) || a.passthrough(e.flags) {
			return e.fallback(w, v, depth)
		}
		return a.encode(e, w, v, depth)
	}
	return e.fallback(w, v, depth)
}

// ============================================================
// Timestamps
// ============================================================

func encodeTimeValue(e *encoder, w *Writer, v *Value, _ int) error {
	w.Byte('"')
	var ok bool
	w.buf, ok = appendTime(w.buf, v.timeVal, v.naive, e.flags)
	if !ok {
		return encodeErrf(EncodeErrTimeRange, "time",
			"year %d outside the 0-9999 range", v.timeVal.Year())
	}
	w.Byte('"')
	return nil
}

// appendTime writes the canonical RFC 3339 projection. Microseconds appear
// when nonzero unless OptOmitMicroseconds. Naive timestamps carry no offset
// unless OptNaiveUTC forces a 'Z'; aware timestamps render a zero offset as
// 'Z' only under OptUTCZ, otherwise "+00:00". Years outside 0-9999 do not
// fit the four-digit field and fail.
func appendTime(b []byte, t time.Time, naive bool, flags Opt) ([]byte, bool) {
	if t.Year() < 0 || t.Year() > 9999 {
		return b, false
	}
	b = appendFourDigits(b, t.Year())
	b = append(b, '-')
	b = appendTwoDigits(b, int(t.Month()))
	b = append(b, '-')
	b = appendTwoDigits(b, t.Day())
	b = append(b, 'T')
	b = appendTwoDigits(b, t.Hour())
	b = append(b, ':')
	b = appendTwoDigits(b, t.Minute())
	b = append(b, ':')
	b = appendTwoDigits(b, t.Second())

	if micro := t.Nanosecond() / 1000; micro != 0 && !flags.Has(OptOmitMicroseconds) {
		b = append(b, '.')
		b = appendSixDigits(b, micro)
	}

	if naive {
		if flags.Has(OptNaiveUTC) {
			b = append(b, 'Z')
		}
		return b, true
	}

	_, offset := t.Zone()
	if offset == 0 && flags.Has(OptUTCZ) {
		return append(b, 'Z'), true
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	minutes := offset / 60
	b = append(b, sign)
	b = appendTwoDigits(b, minutes/60)
	b = append(b, ':')
	b = appendTwoDigits(b, minutes%60)
	return b, true
}

// ============================================================
// Unique Identifiers
// ============================================================

func encodeUUIDValue(_ *encoder, w *Writer, v *Value, _ int) error {
	w.Byte('"')
	w.Literal(v.uuidVal.String())
	w.Byte('"')
	return nil
}

// ============================================================
// Enums
// ============================================================

// Enums encode as their underlying scalar, re-dispatched through the full
// pipeline.
func encodeEnumValue(e *encoder, w *Writer, v *Value, depth int) error {
	return e.encode(w, v.enumVal.Value, depth)
}

// ============================================================
// Records
// ============================================================

// Records encode as an object keyed by field name in declaration order,
// skipping names that begin with '_'. OptSortKeys does not reorder record
// fields; declaration order is part of the canonical form.
func encodeRecordValue(e *encoder, w *Writer, v *Value, depth int) error {
	if err := e.enter(v, depth, "record"); err != nil {
		return err
	}
	err := e.objectMembers(w, v.recVal.Fields, depth, true)
	e.leave()
	return err
}

// ============================================================
// Numeric Arrays
// ============================================================

// DType identifies the element type of a NumericArray.
type DType uint8

const (
	DTypeFloat64 DType = iota
	DTypeFloat32
	DTypeInt64
	DTypeInt32
	DTypeUint64
	DTypeBool
)

// String returns the element type name.
func (d DType) String() string {
	switch d {
	case DTypeFloat64:
		return "float64"
	case DTypeFloat32:
		return "float32"
	case DTypeInt64:
		return "int64"
	case DTypeInt32:
		return "int32"
	case DTypeUint64:
		return "uint64"
	case DTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// NumericArray is a shaped buffer of homogeneous scalar elements. It encodes
// as nested arrays matching its shape.
type NumericArray struct {
	shape []int
	dtype DType

	f64   []float64
	f32   []float32
	i64   []int64
	i32   []int32
	u64   []uint64
	bools []bool
}

// Numeric creates a numeric array value over a flat data slice in row-major
// order. Supported element slices: []float64, []float32, []int64, []int32,
// []uint64, []bool. The data length must equal the product of shape; a
// mismatch (the non-contiguous case) fails rather than reinterpreting.
func Numeric(shape []int, data any) (*Value, error) {
	na := &NumericArray{shape: append([]int(nil), shape...)}
	if len(na.shape) == 0 {
		return nil, fmt.Errorf("sigil: numeric array needs at least one dimension")
	}
	for _, dim := range na.shape {
		if dim < 0 {
			return nil, fmt.Errorf("sigil: negative dimension %d", dim)
		}
	}
	switch d := data.(type) {
	case []float64:
		na.dtype, na.f64 = DTypeFloat64, d
	case []float32:
		na.dtype, na.f32 = DTypeFloat32, d
	case []int64:
		na.dtype, na.i64 = DTypeInt64, d
	case []int32:
		na.dtype, na.i32 = DTypeInt32, d
	case []uint64:
		na.dtype, na.u64 = DTypeUint64, d
	case []bool:
		na.dtype, na.bools = DTypeBool, d
	default:
		return nil, fmt.Errorf("sigil: unsupported numeric element type %T", data)
	}
	if na.flatLen() != shapeProduct(na.shape) {
		return nil, fmt.Errorf("sigil: %d elements do not fill shape %v", na.flatLen(), na.shape)
	}
	return &Value{kind: KindNumeric, numVal: na}, nil
}

// Shape returns a copy of the array's dimensions.
func (na *NumericArray) Shape() []int {
	return append([]int(nil), na.shape...)
}

// DType returns the element type.
func (na *NumericArray) DType() DType {
	return na.dtype
}

// equal reports whether two arrays hold the same shape, element type, and
// elements. Float comparison is exact, so NaN elements never compare equal.
func (na *NumericArray) equal(o *NumericArray) bool {
	if na.dtype != o.dtype || !slices.Equal(na.shape, o.shape) {
		return false
	}
	switch na.dtype {
	case DTypeFloat64:
		return slices.Equal(na.f64, o.f64)
	case DTypeFloat32:
		return slices.Equal(na.f32, o.f32)
	case DTypeInt64:
		return slices.Equal(na.i64, o.i64)
	case DTypeInt32:
		return slices.Equal(na.i32, o.i32)
	case DTypeUint64:
		return slices.Equal(na.u64, o.u64)
	case DTypeBool:
		return slices.Equal(na.bools, o.bools)
	default:
		return false
	}
}

func (na *NumericArray) flatLen() int {
	switch na.dtype {
	case DTypeFloat64:
		return len(na.f64)
	case DTypeFloat32:
		return len(na.f32)
	case DTypeInt64:
		return len(na.i64)
	case DTypeInt32:
		return len(na.i32)
	case DTypeUint64:
		return len(na.u64)
	case DTypeBool:
		return len(na.bools)
	default:
		return 0
	}
}

func shapeProduct(shape []int) int {
	p := 1
	for _, dim := range shape {
		p *= dim
	}
	return p
}

func encodeNumericValue(e *encoder, w *Writer, v *Value, depth int) error {
	na := v.numVal
	if na.flatLen() != shapeProduct(na.shape) {
		return encodeErrf(EncodeErrNumericArray, "numeric",
			"%d elements do not fill shape %v", na.flatLen(), na.shape)
	}
	return e.numericDim(w, na, 0, 0, na.flatLen(), depth)
}

// numericDim emits one dimension of the array as a JSON array, recursing in
// row-major order. Every dimension counts against the depth limit exactly
// like a hand-built nested array would.
func (e *encoder) numericDim(w *Writer, na *NumericArray, dim, lo, hi, depth int) error {
	if depth >= e.maxDepth {
		return encodeErrf(EncodeErrDepth, "numeric", "depth limit exceeded")
	}
	w.Byte('[')
	count := na.shape[dim]
	if count == 0 {
		w.Byte(']')
		return nil
	}
	if dim == len(na.shape)-1 {
		for i := lo; i < hi; i++ {
			if i > lo {
				w.Byte(',')
			}
			if e.indent {
				w.Indent(depth + 1)
			}
			if err := e.numericElem(w, na, i); err != nil {
				return err
			}
		}
	} else {
		stride := (hi - lo) / count
		for i := 0; i < count; i++ {
			if i > 0 {
				w.Byte(',')
			}
			if e.indent {
				w.Indent(depth + 1)
			}
			if err := e.numericDim(w, na, dim+1, lo+i*stride, lo+(i+1)*stride, depth+1); err != nil {
				return err
			}
		}
	}
	if e.indent {
		w.Indent(depth)
	}
	w.Byte(']')
	return nil
}

func (e *encoder) numericElem(w *Writer, na *NumericArray, i int) error {
	lenient := e.flags.Has(OptAllowNonFinite)
	switch na.dtype {
	case DTypeFloat64:
		var ok bool
		w.buf, ok = appendFloat(w.buf, na.f64[i], 64, lenient)
		if !ok {
			return encodeErrf(EncodeErrNonFinite, "numeric", "non-finite element at index %d", i)
		}
	case DTypeFloat32:
		var ok bool
		w.buf, ok = appendFloat(w.buf, float64(na.f32[i]), 32, lenient)
		if !ok {
			return encodeErrf(EncodeErrNonFinite, "numeric", "non-finite element at index %d", i)
		}
	case DTypeInt64:
		w.buf = appendInt(w.buf, na.i64[i])
	case DTypeInt32:
		w.buf = appendInt(w.buf, int64(na.i32[i]))
	case DTypeUint64:
		if e.flags.Has(OptStrictInteger) && na.u64[i] > maxInt64 {
			return encodeErrf(EncodeErrIntegerRange, "numeric",
				"element %d exceeds the signed 64-bit range", na.u64[i])
		}
		w.buf = appendUint(w.buf, na.u64[i])
	case DTypeBool:
		if na.bools[i] {
			w.Literal("true")
		} else {
			w.Literal("false")
		}
	default:
		return encodeErrf(EncodeErrNumericArray, "numeric", "unsupported element type")
	}
	return nil
}
