package sigil

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func mustEncode(t *testing.T, v *Value, opts EncodeOptions) string {
	t.Helper()
	out, err := EncodeWithOptions(v, opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return string(out)
}

// ============================================================
// Primitives
// ============================================================

func TestEncode_Primitives(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"null", Null(), "null"},
		{"nil value", nil, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(-42), "-42"},
		{"int zero", Int(0), "0"},
		{"uint max", Uint(math.MaxUint64), "18446744073709551615"},
		{"float", Float(3.14), "3.14"},
		{"float whole", Float(1), "1.0"},
		{"float negative zero", Float(math.Copysign(0, -1)), "-0.0"},
		{"float small", Float(1e-7), "1e-7"},
		{"float large", Float(1e21), "1e+21"},
		{"text", Text("hello"), `"hello"`},
		{"empty array", Array(), "[]"},
		{"empty object", Object(), "{}"},
		{"nested", Array(Int(1), Object(Field("a", Bool(true)))), `[1,{"a":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEncode(t, tt.value, EncodeOptions{})
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEncode_StringEscaping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"a\nb", `"a\nb"`},
		{"a\tb", `"a\tb"`},
		{"a\x01b", "\"a\\u0001b\""},
		{"héllo", `"héllo"`}, // non-ASCII passes through as raw UTF-8
		{"日本語", `"日本語"`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := mustEncode(t, Text(tt.input), EncodeOptions{})
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEncode_InvalidUTF8Text(t *testing.T) {
	_, err := Encode(Text(string([]byte{0x61, 0xff, 0x62})))
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrUTF8 {
		t.Fatalf("Expected utf8 error, got %v", err)
	}
}

func TestEncode_NonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Encode(Float(f))
		var ee *EncodeError
		if !errors.As(err, &ee) || ee.Kind != EncodeErrNonFinite {
			t.Errorf("Float %v: expected non-finite error, got %v", f, err)
		}
	}

	lenient := EncodeOptions{Flags: OptAllowNonFinite}
	if got := mustEncode(t, Float(math.Inf(-1)), lenient); got != "-Infinity" {
		t.Errorf("Expected -Infinity, got %s", got)
	}
	if got := mustEncode(t, Float(math.NaN()), lenient); got != "NaN" {
		t.Errorf("Expected NaN, got %s", got)
	}
}

func TestEncode_StrictInteger(t *testing.T) {
	// The full unsigned range is accepted by default.
	if got := mustEncode(t, Uint(math.MaxUint64), EncodeOptions{}); got != "18446744073709551615" {
		t.Errorf("Unexpected output %s", got)
	}

	strict := EncodeOptions{Flags: OptStrictInteger}
	_, err := EncodeWithOptions(Uint(math.MaxUint64), strict)
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrIntegerRange {
		t.Fatalf("Expected integer range error, got %v", err)
	}
	// Values within the signed range still pass.
	if got := mustEncode(t, Uint(math.MaxInt64), strict); got != "9223372036854775807" {
		t.Errorf("Unexpected output %s", got)
	}
}

// ============================================================
// Formatting Options
// ============================================================

func TestEncode_IndentExactness(t *testing.T) {
	v := Object(Field("a", Array(Int(1), Int(2))))
	got := mustEncode(t, v, EncodeOptions{Flags: OptIndent2})
	expected := "{\n  \"a\": [\n    1,\n    2\n  ]\n}"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestEncode_AppendNewline(t *testing.T) {
	if got := mustEncode(t, Int(1), EncodeOptions{Flags: OptAppendNewline}); got != "1\n" {
		t.Errorf("Expected trailing newline, got %q", got)
	}
	v := Object(Field("a", Array(Int(1), Int(2))))
	got := mustEncode(t, v, EncodeOptions{Flags: OptIndent2 | OptAppendNewline})
	expected := "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestEncode_SortKeys(t *testing.T) {
	v := Object(Field("b", Int(1)), Field("a", Int(2)))
	if got := mustEncode(t, v, EncodeOptions{}); got != `{"b":1,"a":2}` {
		t.Errorf("Insertion order not preserved: %s", got)
	}
	if got := mustEncode(t, v, EncodeOptions{Flags: OptSortKeys}); got != `{"a":2,"b":1}` {
		t.Errorf("Sort order wrong: %s", got)
	}
	// Byte-wise ordering, not locale-aware.
	v = Object(Field("Z", Int(1)), Field("a", Int(2)), Field("B", Int(3)))
	if got := mustEncode(t, v, EncodeOptions{Flags: OptSortKeys}); got != `{"B":3,"Z":1,"a":2}` {
		t.Errorf("Byte-wise sort wrong: %s", got)
	}
}

func TestEncode_NonStrKeys(t *testing.T) {
	v := Object(
		KeyedField(Int(1), Text("one")),
		KeyedField(Bool(true), Text("yes")),
		KeyedField(Null(), Text("nothing")),
		KeyedField(Float(2.5), Text("half")),
	)
	// Rejected without the flag.
	_, err := Encode(v)
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrKeyType {
		t.Fatalf("Expected key type error, got %v", err)
	}

	got := mustEncode(t, v, EncodeOptions{Flags: OptNonStrKeys})
	expected := `{"1":"one","true":"yes","null":"nothing","2.5":"half"}`
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestEncode_NonStrKeyCollision(t *testing.T) {
	// Int(1) and Text("1") canonicalize identically: last value wins at the
	// first key's position.
	v := Object(
		KeyedField(Int(1), Text("first")),
		Field("b", Int(2)),
		KeyedField(Text("1"), Text("second")),
	)
	got := mustEncode(t, v, EncodeOptions{Flags: OptNonStrKeys})
	expected := `{"1":"second","b":2}`
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestEncode_InvalidOptionBits(t *testing.T) {
	_, err := EncodeWithOptions(Int(1), EncodeOptions{Flags: Opt(1 << 30)})
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrInvalidOptions {
		t.Fatalf("Expected invalid options error, got %v", err)
	}
}

// ============================================================
// Guards
// ============================================================

func TestEncode_CircularArray(t *testing.T) {
	arr := Array()
	arr.Append(arr)
	_, err := Encode(arr)
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrCircular {
		t.Fatalf("Expected circular reference error, got %v", err)
	}
}

func TestEncode_CircularObject(t *testing.T) {
	obj := Object()
	obj.Set("self", obj)
	inner := Object(Field("o", obj))
	obj.Set("in", inner)
	_, err := Encode(obj)
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrCircular {
		t.Fatalf("Expected circular reference error, got %v", err)
	}
}

func TestEncode_AliasedSiblingsAreNotCycles(t *testing.T) {
	shared := Object(Field("x", Int(1)))
	v := Array(shared, shared)
	got := mustEncode(t, v, EncodeOptions{})
	if got != `[{"x":1},{"x":1}]` {
		t.Errorf("Aliased siblings should encode twice: %s", got)
	}
}

func TestEncode_DepthLimit(t *testing.T) {
	build := func(depth int) *Value {
		v := Array()
		for i := 1; i < depth; i++ {
			v = Array(v)
		}
		return v
	}

	if _, err := Encode(build(DefaultMaxDepth)); err != nil {
		t.Fatalf("Nesting at the limit should encode: %v", err)
	}
	_, err := Encode(build(DefaultMaxDepth + 1))
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrDepth {
		t.Fatalf("Expected depth error, got %v", err)
	}

	_, err = EncodeWithOptions(build(3), EncodeOptions{MaxDepth: 2})
	if !errors.As(err, &ee) || ee.Kind != EncodeErrDepth {
		t.Fatalf("Expected depth error at custom limit, got %v", err)
	}
}

// ============================================================
// Hook Dispatch
// ============================================================

func TestEncode_ForeignRequiresHook(t *testing.T) {
	_, err := Encode(Foreign(struct{ X int }{1}))
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrUnsupported {
		t.Fatalf("Expected unsupported error, got %v", err)
	}
}

func TestEncode_HookSubstitution(t *testing.T) {
	type point struct{ X, Y int64 }
	hook := func(v *Value) (*Value, error) {
		raw, err := v.AsForeign()
		if err != nil {
			return nil, err
		}
		p, ok := raw.(point)
		if !ok {
			return nil, fmt.Errorf("unknown type %T", raw)
		}
		return Object(Field("x", Int(p.X)), Field("y", Int(p.Y))), nil
	}

	v := Array(Int(0), Foreign(point{X: 3, Y: 4}))
	got := mustEncode(t, v, EncodeOptions{Hook: hook})
	if got != `[0,{"x":3,"y":4}]` {
		t.Errorf("Unexpected output %s", got)
	}
}

func TestEncode_HookFailure(t *testing.T) {
	hook := func(v *Value) (*Value, error) {
		return nil, fmt.Errorf("cannot represent this")
	}
	_, err := EncodeWithOptions(Foreign(1+2i), EncodeOptions{Hook: hook})
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrHook {
		t.Fatalf("Expected hook error, got %v", err)
	}
}

func TestEncode_HookIdentityResult(t *testing.T) {
	hook := func(v *Value) (*Value, error) { return v, nil }
	_, err := EncodeWithOptions(Foreign("opaque"), EncodeOptions{Hook: hook})
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrHook {
		t.Fatalf("Expected hook error, got %v", err)
	}
}

func TestEncode_HookCallLimit(t *testing.T) {
	// A hook that keeps substituting fresh unsupported values must be cut
	// off rather than looping forever.
	hook := func(v *Value) (*Value, error) { return Foreign("again"), nil }
	_, err := EncodeWithOptions(Foreign("start"), EncodeOptions{Hook: hook})
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrHook {
		t.Fatalf("Expected hook error, got %v", err)
	}
}

func TestEncode_HookResultIsGuarded(t *testing.T) {
	// Substituted values pass through the same cycle guard.
	cyclic := Array()
	cyclic.Append(cyclic)
	hook := func(v *Value) (*Value, error) { return cyclic, nil }
	_, err := EncodeWithOptions(Foreign("x"), EncodeOptions{Hook: hook})
	var ee *EncodeError
	if !errors.As(err, &ee) || ee.Kind != EncodeErrCircular {
		t.Fatalf("Expected circular reference error, got %v", err)
	}
}

// ============================================================
// Raw Fragments
// ============================================================

func TestEncode_RawFragment(t *testing.T) {
	v := Object(Field("pre", Raw([]byte(`[1,2,3]`))))
	got := mustEncode(t, v, EncodeOptions{})
	if got != `{"pre":[1,2,3]}` {
		t.Errorf("Unexpected output %s", got)
	}
}

// ============================================================
// Output Isolation
// ============================================================

func TestEncode_OutputIsCallerOwned(t *testing.T) {
	v := Object(Field("k", Text("value")))
	first, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := string(first)
	// Interleave other encodes that reuse the pooled buffer.
	for i := 0; i < 16; i++ {
		if _, err := Encode(Array(Int(int64(i)), Text("padding padding padding"))); err != nil {
			t.Fatal(err)
		}
	}
	if string(first) != snapshot {
		t.Error("Returned buffer was clobbered by a later encode")
	}
}
