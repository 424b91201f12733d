// Package sigil implements a strict, fast bidirectional codec between an
// ordered host value model and JSON text.
//
// sigil is designed to be:
//   - Strict (valid UTF-8 always, round-trippable numbers, no silent loss)
//   - Fast (single-pass parsing, pooled buffers, no intermediate tree)
//   - Order-preserving (objects are ordered member sequences, not hash maps)
//   - Extensible (timestamps, uuids, enums, records, numeric arrays)
//
// # Data Model
//
// Scalars: null, bool, int, uint, float, text
// Containers: array, object (ordered members)
// Extended: time, uuid, enum, record, numeric array, raw fragment, foreign
//
// # Entry Points
//
//	v, err := sigil.Decode(data)
//	out, err := sigil.Encode(v)
//	out, err := sigil.EncodeWithOptions(v, sigil.EncodeOptions{
//	    Flags: sigil.OptSortKeys | sigil.OptIndent2,
//	})
//
// # Duplicate Keys
//
// When input JSON repeats a key within one object, the last occurrence's
// value wins but the key keeps the position of its first occurrence. The
// encoder applies the same rule when OptNonStrKeys canonicalizes two keys to
// the same text.
//
// # Guards
//
// Nesting of arrays and objects is bounded (1024 levels by default) in both
// directions. The encoder tracks container identity on the active recursion
// path and rejects cycles instead of recursing unboundedly.
//
// # Extended Kinds
//
// Extended kinds project to fixed canonical JSON forms, gated by options:
// timestamps as RFC 3339 text, uuids as lowercase hyphenated hex (under
// OptSerializeUUID), enums as their underlying scalar, records as objects in
// field declaration order (under OptSerializeRecord), numeric arrays as
// nested arrays matching their shape (under OptSerializeNumeric). Values no
// adapter covers route to the caller's hook.
//
// # Concurrency
//
// Decode and Encode are pure synchronous functions with no shared mutable
// state; concurrent calls need no coordination. Internal buffer pooling is
// an optimization only and never changes output.
package sigil
