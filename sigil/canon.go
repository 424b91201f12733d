package sigil

import "github.com/cespare/xxhash/v2"

// ============================================================
// Canonical Encoding
// ============================================================

// canonicalFlags pins every choice the encoder would otherwise leave to the
// caller: sorted keys, compact output, all adapters enabled, zero offsets as
// 'Z', naive timestamps marked UTC.
const canonicalFlags = OptSortKeys |
	OptSerializeUUID |
	OptSerializeRecord |
	OptSerializeNumeric |
	OptUTCZ |
	OptNaiveUTC

// Canonicalize encodes v in its canonical form: the single byte sequence a
// given value always maps to, suitable for hashing and equality checks.
func Canonicalize(v *Value) ([]byte, error) {
	return EncodeWithOptions(v, EncodeOptions{Flags: canonicalFlags})
}

// CanonicalHash returns a 64-bit content hash of the canonical encoding.
// Values that differ only in object member order hash identically.
func CanonicalHash(v *Value) (uint64, error) {
	data, err := Canonicalize(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
