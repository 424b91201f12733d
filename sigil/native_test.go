package sigil

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFromNative_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input any
		kind  Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 42, KindInt},
		{"int8", int8(-1), KindInt},
		{"uint", uint(7), KindUint},
		{"uint64", uint64(7), KindUint},
		{"float32", float32(0.5), KindFloat},
		{"float64", 2.5, KindFloat},
		{"string", "x", KindText},
		{"time", time.Now(), KindTime},
		{"uuid", uuid.New(), KindUUID},
		{"unknown struct", struct{ A int }{1}, KindForeign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromNative(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if v.Type() != tt.kind {
				t.Errorf("Expected kind %v, got %v", tt.kind, v.Type())
			}
		})
	}
}

func TestFromNative_Containers(t *testing.T) {
	v, err := FromNative(map[string]any{
		"b": []any{int64(1), "two", nil},
		"a": true,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Map keys are sorted for determinism.
	data, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"a":true,"b":[1,"two",null]}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestFromNative_NumericSlices(t *testing.T) {
	v, err := FromNative([]int64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if v.Type() != KindNumeric {
		t.Fatalf("Expected numeric kind, got %v", v.Type())
	}
	data, err := EncodeWithOptions(v, EncodeOptions{Flags: OptSerializeNumeric})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1,2,3]" {
		t.Errorf("Unexpected encoding %s", data)
	}
}

func TestToNative_Inverse(t *testing.T) {
	v, err := Decode([]byte(`{"a":[1,2.5,"x",null],"b":true}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := ToNative(v)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]any{
		"a": []any{int64(1), 2.5, "x", nil},
		"b": true,
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %#v, got %#v", expected, got)
	}
}

func TestToNative_ExtendedKinds(t *testing.T) {
	u := uuid.MustParse("f81d4fae-7dec-11d0-a765-00a0c91e6bf6")
	got, err := ToNative(UUID(u))
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Errorf("Expected %v, got %v", u, got)
	}

	got, err = ToNative(Enum("Color.RED", Int(3)))
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(3) {
		t.Errorf("Enum should unwrap to its underlying value, got %#v", got)
	}

	got, err = ToNative(Record("Point", Field("x", Int(1)), Field("y", Int(2))))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, map[string]any{"x": int64(1), "y": int64(2)}) {
		t.Errorf("Unexpected record projection %#v", got)
	}

	num, err := Numeric([]int{2, 2}, []int64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	got, err = ToNative(num)
	if err != nil {
		t.Fatal(err)
	}
	expected := []any{[]any{int64(1), int64(2)}, []any{int64(3), int64(4)}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unexpected numeric projection %#v", got)
	}
}

func TestToNative_Foreign(t *testing.T) {
	type opaque struct{ N int }
	got, err := ToNative(Foreign(opaque{N: 9}))
	if err != nil {
		t.Fatal(err)
	}
	if got != (opaque{N: 9}) {
		t.Errorf("Foreign should return the wrapped value, got %#v", got)
	}
}
