package sigil

// Opt is a bitmask of independent behavior flags. Unknown bits are a
// configuration error at call time, never silently ignored.
type Opt uint32

const (
	// OptAppendNewline appends a single trailing '\n' after the document.
	OptAppendNewline Opt = 1 << iota

	// OptIndent2 switches output to the fixed 2-space pretty style.
	OptIndent2

	// OptNaiveUTC renders naive timestamps with a trailing 'Z'.
	OptNaiveUTC

	// OptUTCZ renders a zero UTC offset as 'Z' instead of "+00:00".
	OptUTCZ

	// OptOmitMicroseconds drops sub-second precision from timestamps.
	OptOmitMicroseconds

	// OptNonStrKeys converts int, uint, float, bool, null, time, and uuid
	// object keys to their canonical text form. Keys that canonicalize to
	// the same text collide last-wins, first position.
	OptNonStrKeys

	// OptSortKeys emits object members in ascending byte order of their
	// canonical key text.
	OptSortKeys

	// OptStrictInteger narrows the accepted integer range to signed 64-bit,
	// rejecting the unsigned extension.
	OptStrictInteger

	// OptPassthroughTime routes timestamp values to the hook instead of the
	// built-in adapter.
	OptPassthroughTime

	// OptPassthroughEnum routes enum values to the hook instead of
	// unwrapping them to their underlying scalar.
	OptPassthroughEnum

	// OptSerializeNumeric enables the numeric array adapter.
	OptSerializeNumeric

	// OptSerializeRecord enables the record adapter.
	OptSerializeRecord

	// OptSerializeUUID enables the uuid adapter.
	OptSerializeUUID

	// OptAllowNonFinite permits NaN, Infinity, and -Infinity on both
	// directions: the decoder accepts the bare tokens, the encoder emits
	// them. Off by default; the output is then not strict JSON.
	OptAllowNonFinite

	optMax
)

// encodeMask covers every flag the encoder understands.
const encodeMask = optMax - 1

// decodeMask covers the flags the decoder consults.
const decodeMask = OptAllowNonFinite

// Has reports whether all flags in mask are set.
func (o Opt) Has(mask Opt) bool {
	return o&mask == mask
}

// DefaultMaxDepth bounds nesting of arrays and objects on both directions.
const DefaultMaxDepth = 1024

// DecodeOptions configures the decoder.
type DecodeOptions struct {
	// Flags holds decode-relevant flags (OptAllowNonFinite). Any other bit
	// is an invalid-options error.
	Flags Opt

	// MaxDepth overrides the nesting limit. Zero means DefaultMaxDepth.
	MaxDepth int
}

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Flags modulates output; see the Opt constants.
	Flags Opt

	// MaxDepth overrides the nesting limit. Zero means DefaultMaxDepth.
	MaxDepth int

	// Hook is invoked for any value the built-in dispatch cannot represent.
	// Its result re-enters the full dispatch and guard pipeline.
	Hook Hook
}

// Hook substitutes a representable value for an unsupported one, or fails.
type Hook func(v *Value) (*Value, error)

func (o DecodeOptions) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o EncodeOptions) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}
