package sigil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindText
	KindArray
	KindObject
	KindTime
	KindUUID
	KindEnum
	KindRecord
	KindNumeric
	KindRaw
	KindForeign
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindNumeric:
		return "numeric"
	case KindRaw:
		return "raw"
	case KindForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Value is the host representation produced by Decode and consumed by Encode.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	strVal   string // Text and Raw
	timeVal  time.Time
	naive    bool // Time only: no UTC offset attached
	uuidVal  uuid.UUID

	// Container values
	arrVal []*Value
	objVal []Member

	// Extended values
	enumVal    *EnumValue
	recVal     *RecordValue
	numVal     *NumericArray
	foreignVal any
}

// Member is one entry of an ordered Object. Key is ordinarily a Text value;
// other key kinds are encodable only under OptNonStrKeys.
type Member struct {
	Key   *Value
	Value *Value
}

// EnumValue is a named wrapper around an underlying scalar. It encodes as its
// underlying value, re-dispatched through the primitive pipeline.
type EnumValue struct {
	Name  string // e.g. "Color.RED"
	Value *Value // the underlying scalar
}

// RecordValue is a named structure with fields in declaration order.
// Fields whose name begins with '_' are skipped when encoding.
type RecordValue struct {
	Name   string
	Fields []Member
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates a signed integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Uint creates an unsigned integer value. Magnitudes above the signed range
// are rejected at encode time under OptStrictInteger.
func Uint(v uint64) *Value {
	return &Value{kind: KindUint, uintVal: v}
}

// Float creates a binary64 value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Text creates a string value. The string must be valid UTF-8; the encoder
// verifies this while escaping.
func Text(v string) *Value {
	return &Value{kind: KindText, strVal: v}
}

// Array creates an ordered sequence value.
func Array(values ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: values}
}

// Object creates an ordered object value from members.
func Object(members ...Member) *Value {
	return &Value{kind: KindObject, objVal: members}
}

// Time creates a timestamp value carrying a UTC offset.
func Time(t time.Time) *Value {
	return &Value{kind: KindTime, timeVal: t}
}

// NaiveTime creates a timestamp value with no UTC offset. Only the wall-clock
// fields of t are significant; its location is ignored.
func NaiveTime(t time.Time) *Value {
	return &Value{kind: KindTime, timeVal: t, naive: true}
}

// UUID creates a unique-identifier value.
func UUID(u uuid.UUID) *Value {
	return &Value{kind: KindUUID, uuidVal: u}
}

// Enum creates a named wrapper around an underlying scalar.
func Enum(name string, underlying *Value) *Value {
	return &Value{kind: KindEnum, enumVal: &EnumValue{Name: name, Value: underlying}}
}

// Record creates a named structure with fields in declaration order.
func Record(name string, fields ...Member) *Value {
	return &Value{kind: KindRecord, recVal: &RecordValue{Name: name, Fields: fields}}
}

// Raw creates a pre-encoded fragment spliced verbatim into the output.
// The caller is responsible for the fragment being valid JSON.
func Raw(data []byte) *Value {
	return &Value{kind: KindRaw, strVal: string(data)}
}

// Foreign wraps an arbitrary host value that only a caller-supplied hook can
// represent. Encoding a Foreign value without a hook fails.
func Foreign(v any) *Value {
	return &Value{kind: KindForeign, foreignVal: v}
}

// Field creates a Member with a Text key.
func Field(key string, value *Value) Member {
	return Member{Key: Text(key), Value: value}
}

// KeyedField creates a Member with an arbitrary key value.
func KeyedField(key, value *Value) Member {
	return Member{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value kind.
func (v *Value) Type() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("sigil: expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsInt returns the signed integer value. Uint values within the signed range
// convert transparently.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("sigil: nil value")
	}
	switch v.kind {
	case KindInt:
		return v.intVal, nil
	case KindUint:
		if v.uintVal > maxInt64 {
			return 0, fmt.Errorf("sigil: uint %d overflows int64", v.uintVal)
		}
		return int64(v.uintVal), nil
	}
	return 0, fmt.Errorf("sigil: expected int, got %s", v.kind)
}

// AsUint returns the unsigned integer value. Non-negative Int values convert
// transparently.
func (v *Value) AsUint() (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("sigil: nil value")
	}
	switch v.kind {
	case KindUint:
		return v.uintVal, nil
	case KindInt:
		if v.intVal < 0 {
			return 0, fmt.Errorf("sigil: negative int %d has no uint form", v.intVal)
		}
		return uint64(v.intVal), nil
	}
	return 0, fmt.Errorf("sigil: expected uint, got %s", v.kind)
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindFloat {
		return 0, fmt.Errorf("sigil: expected float, got %s", v.kind)
	}
	return v.floatVal, nil
}

// AsText returns the string value.
func (v *Value) AsText() (string, error) {
	if v == nil {
		return "", fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindText {
		return "", fmt.Errorf("sigil: expected text, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindArray {
		return nil, fmt.Errorf("sigil: expected array, got %s", v.kind)
	}
	return v.arrVal, nil
}

// AsObject returns the object members in order.
func (v *Value) AsObject() ([]Member, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindObject {
		return nil, fmt.Errorf("sigil: expected object, got %s", v.kind)
	}
	return v.objVal, nil
}

// AsTime returns the timestamp and whether it is naive (no UTC offset).
func (v *Value) AsTime() (time.Time, bool, error) {
	if v == nil {
		return time.Time{}, false, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindTime {
		return time.Time{}, false, fmt.Errorf("sigil: expected time, got %s", v.kind)
	}
	return v.timeVal, v.naive, nil
}

// AsUUID returns the unique identifier.
func (v *Value) AsUUID() (uuid.UUID, error) {
	if v == nil {
		return uuid.UUID{}, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindUUID {
		return uuid.UUID{}, fmt.Errorf("sigil: expected uuid, got %s", v.kind)
	}
	return v.uuidVal, nil
}

// AsEnum returns the enum value.
func (v *Value) AsEnum() (*EnumValue, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindEnum {
		return nil, fmt.Errorf("sigil: expected enum, got %s", v.kind)
	}
	return v.enumVal, nil
}

// AsRecord returns the record value.
func (v *Value) AsRecord() (*RecordValue, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindRecord {
		return nil, fmt.Errorf("sigil: expected record, got %s", v.kind)
	}
	return v.recVal, nil
}

// AsNumeric returns the numeric array.
func (v *Value) AsNumeric() (*NumericArray, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindNumeric {
		return nil, fmt.Errorf("sigil: expected numeric, got %s", v.kind)
	}
	return v.numVal, nil
}

// AsRaw returns the pre-encoded fragment bytes.
func (v *Value) AsRaw() ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindRaw {
		return nil, fmt.Errorf("sigil: expected raw, got %s", v.kind)
	}
	return []byte(v.strVal), nil
}

// AsForeign returns the wrapped host value.
func (v *Value) AsForeign() (any, error) {
	if v == nil {
		return nil, fmt.Errorf("sigil: nil value")
	}
	if v.kind != KindForeign {
		return nil, fmt.Errorf("sigil: expected foreign, got %s", v.kind)
	}
	return v.foreignVal, nil
}

// Len returns the length of an array, object, or record.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	case KindRecord:
		return len(v.recVal.Fields)
	default:
		return 0
	}
}

// Get returns a member value by Text key from an object or record.
func (v *Value) Get(key string) *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindObject:
		for _, m := range v.objVal {
			if m.Key != nil && m.Key.kind == KindText && m.Key.strVal == key {
				return m.Value
			}
		}
	case KindRecord:
		for _, m := range v.recVal.Fields {
			if m.Key != nil && m.Key.kind == KindText && m.Key.strVal == key {
				return m.Value
			}
		}
	}
	return nil
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, fmt.Errorf("sigil: not an array")
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("sigil: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets a member value by Text key on an object. A key already present
// keeps its position; the value is replaced.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		panic("sigil: cannot set on non-object")
	}
	for i := range v.objVal {
		k := v.objVal[i].Key
		if k != nil && k.kind == KindText && k.strVal == key {
			v.objVal[i].Value = val
			return
		}
	}
	v.objVal = append(v.objVal, Field(key, val))
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) {
	if v.kind != KindArray {
		panic("sigil: cannot append to non-array")
	}
	v.arrVal = append(v.arrVal, val)
}

// ============================================================
// Numeric Coercion Helpers
// ============================================================

// Number returns a numeric value as float64 if int, uint, or float.
func (v *Value) Number() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return float64(v.intVal), true
	case KindUint:
		return float64(v.uintVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// IsNumeric returns true if int, uint, or float.
func (v *Value) IsNumeric() bool {
	return v != nil && (v.kind == KindInt || v.kind == KindUint || v.kind == KindFloat)
}

// ============================================================
// Structural Equality
// ============================================================

// Equal reports structural equality. Object member order is significant.
// Int and Uint values holding the same magnitude compare equal. Foreign
// values never compare equal; the codec cannot inspect what they wrap.
func (v *Value) Equal(o *Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	switch v.kind {
	case KindBool:
		return o.kind == KindBool && v.boolVal == o.boolVal
	case KindInt, KindUint:
		return intEqual(v, o)
	case KindFloat:
		return o.kind == KindFloat && v.floatVal == o.floatVal
	case KindText:
		return o.kind == KindText && v.strVal == o.strVal
	case KindArray:
		if o.kind != KindArray || len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if o.kind != KindObject || len(v.objVal) != len(o.objVal) {
			return false
		}
		for i := range v.objVal {
			if !v.objVal[i].Key.Equal(o.objVal[i].Key) || !v.objVal[i].Value.Equal(o.objVal[i].Value) {
				return false
			}
		}
		return true
	case KindTime:
		return o.kind == KindTime && v.naive == o.naive && v.timeVal.Equal(o.timeVal)
	case KindUUID:
		return o.kind == KindUUID && v.uuidVal == o.uuidVal
	case KindEnum:
		return o.kind == KindEnum && v.enumVal.Name == o.enumVal.Name &&
			v.enumVal.Value.Equal(o.enumVal.Value)
	case KindRecord:
		if o.kind != KindRecord || v.recVal.Name != o.recVal.Name ||
			len(v.recVal.Fields) != len(o.recVal.Fields) {
			return false
		}
		for i := range v.recVal.Fields {
			if !v.recVal.Fields[i].Key.Equal(o.recVal.Fields[i].Key) ||
				!v.recVal.Fields[i].Value.Equal(o.recVal.Fields[i].Value) {
				return false
			}
		}
		return true
	case KindNumeric:
		return o.kind == KindNumeric && v.numVal.equal(o.numVal)
	case KindRaw:
		return o.kind == KindRaw && v.strVal == o.strVal
	default:
		return false
	}
}

func intEqual(v, o *Value) bool {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return v.intVal == o.intVal
	case v.kind == KindUint && o.kind == KindUint:
		return v.uintVal == o.uintVal
	case v.kind == KindInt && o.kind == KindUint:
		return v.intVal >= 0 && uint64(v.intVal) == o.uintVal
	case v.kind == KindUint && o.kind == KindInt:
		return o.intVal >= 0 && uint64(o.intVal) == v.uintVal
	default:
		return false
	}
}

const maxInt64 = uint64(1<<63 - 1)
