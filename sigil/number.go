package sigil

import (
	"math"
	"strconv"
)

// Number formatting. Integers use the strconv fast paths; floats use the
// shortest decimal representation that re-parses to the same binary64 value.

func appendInt(b []byte, v int64) []byte {
	return strconv.AppendInt(b, v, 10)
}

func appendUint(b []byte, v uint64) []byte {
	return strconv.AppendUint(b, v, 10)
}

// appendFloat formats f in the shortest form that re-parses to the same
// value at the given bit size (64 for Float values, 32 for float32 numeric
// array elements). Very small and very large magnitudes switch to exponent
// notation, matching the cutoffs in encoding/json so the output stays
// conventional. Non-finite values are rejected unless allowNonFinite, in
// which case the bare tokens NaN, Infinity, and -Infinity are written.
func appendFloat(b []byte, f float64, bits int, allowNonFinite bool) ([]byte, bool) {
	if math.IsNaN(f) {
		if !allowNonFinite {
			return b, false
		}
		return append(b, "NaN"...), true
	}
	if math.IsInf(f, 1) {
		if !allowNonFinite {
			return b, false
		}
		return append(b, "Infinity"...), true
	}
	if math.IsInf(f, -1) {
		if !allowNonFinite {
			return b, false
		}
		return append(b, "-Infinity"...), true
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	mark := len(b)
	b = strconv.AppendFloat(b, f, format, -1, bits)
	if format == 'e' {
		// Trim a zero-padded exponent: "e-09" becomes "e-9".
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
		return b, true
	}
	// Keep a decimal point so whole-valued floats re-parse as floats.
	for _, c := range b[mark:] {
		if c == '.' {
			return b, true
		}
	}
	return append(b, '.', '0'), true
}

// appendTwoDigits writes v zero-padded to two digits. Timestamp helper.
func appendTwoDigits(b []byte, v int) []byte {
	return append(b, byte('0'+v/10), byte('0'+v%10))
}

// appendFourDigits writes v zero-padded to four digits. Timestamp helper.
func appendFourDigits(b []byte, v int) []byte {
	return append(b,
		byte('0'+v/1000),
		byte('0'+v/100%10),
		byte('0'+v/10%10),
		byte('0'+v%10))
}

// appendSixDigits writes v zero-padded to six digits. Microsecond helper.
func appendSixDigits(b []byte, v int) []byte {
	for shift := 100000; shift > 0; shift /= 10 {
		b = append(b, byte('0'+v/shift%10))
	}
	return b
}
