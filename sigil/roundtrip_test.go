package sigil

import (
	"math"
	"testing"
)

// ============================================================
// Round Trips
// ============================================================

func TestRoundTrip_TreeToTextToTree(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(-9223372036854775808)},
		{"uint beyond int64", Uint(math.MaxUint64)},
		{"float", Float(3.14159)},
		{"float whole", Float(2)},
		{"float tiny", Float(5e-324)},
		{"text", Text("héllo \"world\"\n")},
		{"empty array", Array()},
		{"empty object", Object()},
		{"mixed", Object(
			Field("list", Array(Int(1), Float(2.5), Text("three"), Null())),
			Field("flag", Bool(false)),
			Field("nested", Object(Field("deep", Array(Array(Array(Int(0))))))),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			back, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode(%s) failed: %v", data, err)
			}
			if !back.Equal(tt.value) {
				t.Errorf("Round trip changed the value: %s", data)
			}
		})
	}
}

func TestRoundTrip_TextToTreeToText(t *testing.T) {
	// Inputs already in compact canonical form re-encode byte for byte.
	inputs := []string{
		"null",
		"true",
		"-42",
		"18446744073709551615",
		"3.14",
		"1.0",
		"1e-7",
		`"hi"`,
		`[1,[2,[3]]]`,
		`{"a":1,"b":[true,null]}`,
		`{"dup":"kept-position"}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := Decode([]byte(in))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			out, err := Encode(v)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if string(out) != in {
				t.Errorf("Expected %s, got %s", in, out)
			}
		})
	}
}

func TestRoundTrip_NonFinite(t *testing.T) {
	opts := EncodeOptions{Flags: OptAllowNonFinite}
	v := Array(Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1)))
	data, err := EncodeWithOptions(v, opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[NaN,Infinity,-Infinity]" {
		t.Fatalf("Unexpected encoding %s", data)
	}
	back, err := DecodeWithOptions(data, DecodeOptions{Flags: OptAllowNonFinite})
	if err != nil {
		t.Fatal(err)
	}
	elems, err := back.AsArray()
	if err != nil || len(elems) != 3 {
		t.Fatalf("Expected 3 elements back, got %v (%v)", elems, err)
	}
	if f, _ := elems[0].AsFloat(); !math.IsNaN(f) {
		t.Errorf("Expected NaN back, got %v", f)
	}
	if f, _ := elems[1].AsFloat(); !math.IsInf(f, 1) {
		t.Errorf("Expected +Inf back, got %v", f)
	}
	if f, _ := elems[2].AsFloat(); !math.IsInf(f, -1) {
		t.Errorf("Expected -Inf back, got %v", f)
	}
}

func TestRoundTrip_IndentedOutputReparses(t *testing.T) {
	v := Object(
		Field("a", Array(Int(1), Int(2), Int(3))),
		Field("b", Object(Field("c", Text("x")))),
	)
	data, err := EncodeWithOptions(v, EncodeOptions{Flags: OptIndent2 | OptAppendNewline})
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Indented output failed to parse: %v", err)
	}
	if !back.Equal(v) {
		t.Error("Indented round trip changed the value")
	}
}

// ============================================================
// Benchmarks
// ============================================================

var benchDoc = []byte(`{"id":12345,"name":"sensor-7","active":true,"readings":[1.5,2.25,3.125,4.0625,-17.5],"tags":["edge","rack-2",null],"meta":{"fw":"2.4.1","uptime":86400,"calibrated":false}}`)

func BenchmarkDecode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Decode(benchDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	v, err := Decode(benchDoc)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeIndented(b *testing.B) {
	v, err := Decode(benchDoc)
	if err != nil {
		b.Fatal(err)
	}
	opts := EncodeOptions{Flags: OptIndent2}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeWithOptions(v, opts); err != nil {
			b.Fatal(err)
		}
	}
}
