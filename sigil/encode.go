package sigil

import (
	"fmt"
	"sort"
)

// Hooks may substitute values that themselves need the hook again; this caps
// the chain so a misbehaving hook cannot loop forever.
const maxHookCalls = 254

// Encode serializes a Value tree with default options: compact output,
// insertion-order object members, extended kinds disabled.
func Encode(v *Value) ([]byte, error) {
	return EncodeWithOptions(v, EncodeOptions{})
}

// EncodeWithOptions serializes a Value tree. On success the returned buffer
// is complete, valid output owned by the caller; on failure no buffer is
// returned and any partial output is discarded.
func EncodeWithOptions(v *Value, opts EncodeOptions) ([]byte, error) {
	if bad := opts.Flags &^ encodeMask; bad != 0 {
		return nil, encodeErrf(EncodeErrInvalidOptions, "", "unknown option bits 0x%x", uint32(bad))
	}
	e := &encoder{
		flags:    opts.Flags,
		maxDepth: opts.maxDepth(),
		hook:     opts.Hook,
		indent:   opts.Flags.Has(OptIndent2),
	}
	w := acquireWriter()
	defer releaseWriter(w)

	if err := e.encode(w, v, 0); err != nil {
		return nil, err
	}
	if opts.Flags.Has(OptAppendNewline) {
		w.Byte('\n')
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// encoder carries one call's dispatch state. Nothing survives the call.
type encoder struct {
	flags     Opt
	maxDepth  int
	hook      Hook
	hookCalls int
	indent    bool

	// stack holds the identities of containers on the active recursion
	// path; revisiting one is a circular reference.
	stack []*Value
}

// encode dispatches one value. Kinds are checked in fixed priority order:
// primitives first, then containers, then the extended adapters, then the
// hook. depth counts the containers already open.
func (e *encoder) encode(w *Writer, v *Value, depth int) error {
	if v == nil || v.kind == KindNull {
		w.Literal("null")
		return nil
	}
	switch v.kind {
	case KindBool:
		if v.boolVal {
			w.Literal("true")
		} else {
			w.Literal("false")
		}
		return nil

	case KindInt:
		w.buf = appendInt(w.buf, v.intVal)
		return nil

	case KindUint:
		if e.flags.Has(OptStrictInteger) && v.uintVal > maxInt64 {
			return encodeErrf(EncodeErrIntegerRange, "uint",
				"%d exceeds the signed 64-bit range", v.uintVal)
		}
		w.buf = appendUint(w.buf, v.uintVal)
		return nil

	case KindFloat:
		var ok bool
		w.buf, ok = appendFloat(w.buf, v.floatVal, 64, e.flags.Has(OptAllowNonFinite))
		if !ok {
			return encodeErrf(EncodeErrNonFinite, "float", "non-finite value is not representable")
		}
		return nil

	case KindText:
		if err := w.Quoted(v.strVal); err != nil {
			return encodeErrf(EncodeErrUTF8, "text", "%v", err)
		}
		return nil

	case KindArray:
		return e.array(w, v, depth)

	case KindObject:
		return e.object(w, v, depth)

	case KindRaw:
		w.Literal(v.strVal)
		return nil
	}
	return e.extended(w, v, depth)
}

// fallback routes a value the built-in dispatch cannot represent to the
// caller's hook, or fails.
func (e *encoder) fallback(w *Writer, v *Value, depth int) error {
	name := v.kind.String()
	if v.kind == KindForeign {
		name = fmt.Sprintf("%T", v.foreignVal)
	}
	if e.hook == nil {
		return encodeErrf(EncodeErrUnsupported, name, "no adapter and no hook")
	}
	if e.hookCalls >= maxHookCalls {
		return encodeErrf(EncodeErrHook, name, "hook call limit exceeded")
	}
	e.hookCalls++
	sub, err := e.hook(v)
	if err != nil {
		return encodeErrf(EncodeErrHook, name, "%v", err)
	}
	if sub == v {
		return encodeErrf(EncodeErrHook, name, "hook returned its input unchanged")
	}
	return e.encode(w, sub, depth)
}

// ============================================================
// Containers
// ============================================================

// enter pushes a container identity, failing on a cycle or depth overflow.
func (e *encoder) enter(v *Value, depth int, what string) error {
	if depth >= e.maxDepth {
		return encodeErrf(EncodeErrDepth, what, "depth limit exceeded")
	}
	for _, p := range e.stack {
		if p == v {
			return encodeErrf(EncodeErrCircular, what, "circular reference")
		}
	}
	e.stack = append(e.stack, v)
	return nil
}

func (e *encoder) leave() {
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *encoder) array(w *Writer, v *Value, depth int) error {
	if err := e.enter(v, depth, "array"); err != nil {
		return err
	}
	err := e.arrayElems(w, v, depth)
	e.leave()
	return err
}

func (e *encoder) arrayElems(w *Writer, v *Value, depth int) error {
	w.Byte('[')
	if len(v.arrVal) == 0 {
		w.Byte(']')
		return nil
	}
	for i, elem := range v.arrVal {
		if i > 0 {
			w.Byte(',')
		}
		if e.indent {
			w.Indent(depth + 1)
		}
		if err := e.encode(w, elem, depth+1); err != nil {
			return err
		}
	}
	if e.indent {
		w.Indent(depth)
	}
	w.Byte(']')
	return nil
}

func (e *encoder) object(w *Writer, v *Value, depth int) error {
	if err := e.enter(v, depth, "object"); err != nil {
		return err
	}
	err := e.objectMembers(w, v.objVal, depth, false)
	e.leave()
	return err
}

// objectMembers writes an ordered member list. record skips fields whose
// name starts with '_' and pins declaration order even under OptSortKeys.
func (e *encoder) objectMembers(w *Writer, members []Member, depth int, record bool) error {
	w.Byte('{')

	pairs, err := e.keyedPairs(members, record)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		w.Byte('}')
		return nil
	}
	if !record && e.flags.Has(OptSortKeys) {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	}

	for i, p := range pairs {
		if i > 0 {
			w.Byte(',')
		}
		if e.indent {
			w.Indent(depth + 1)
		}
		if err := w.Quoted(p.key); err != nil {
			return encodeErrf(EncodeErrUTF8, "key", "%v", err)
		}
		if e.indent {
			w.Literal(": ")
		} else {
			w.Byte(':')
		}
		if err := e.encode(w, p.value, depth+1); err != nil {
			return err
		}
	}
	if e.indent {
		w.Indent(depth)
	}
	w.Byte('}')
	return nil
}

type keyedPair struct {
	key   string
	value *Value
}

// keyedPairs canonicalizes member keys to text. Under OptNonStrKeys two keys
// canonicalizing to the same text collide last-wins at the first key's
// position, mirroring the decoder's duplicate-key rule.
func (e *encoder) keyedPairs(members []Member, record bool) ([]keyedPair, error) {
	nonStr := e.flags.Has(OptNonStrKeys)
	pairs := make([]keyedPair, 0, len(members))
	for _, m := range members {
		key, err := e.keyText(m.Key)
		if err != nil {
			return nil, err
		}
		if record && len(key) > 0 && key[0] == '_' {
			continue
		}
		if nonStr {
			if i := findPair(pairs, key); i >= 0 {
				pairs[i].value = m.Value
				continue
			}
		}
		pairs = append(pairs, keyedPair{key: key, value: m.Value})
	}
	return pairs, nil
}

func findPair(pairs []keyedPair, key string) int {
	for i := range pairs {
		if pairs[i].key == key {
			return i
		}
	}
	return -1
}

// keyText canonicalizes an object key using the same formatting rules as
// values. Non-text keys require OptNonStrKeys.
func (e *encoder) keyText(k *Value) (string, error) {
	if k != nil && k.kind == KindText {
		return k.strVal, nil
	}
	if !e.flags.Has(OptNonStrKeys) {
		kind := "nil"
		if k != nil {
			kind = k.kind.String()
		}
		return "", encodeErrf(EncodeErrKeyType, kind, "object keys must be text")
	}
	if k == nil {
		return "null", nil
	}
	switch k.kind {
	case KindNull:
		return "null", nil
	case KindBool:
		if k.boolVal {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return string(appendInt(nil, k.intVal)), nil
	case KindUint:
		if e.flags.Has(OptStrictInteger) && k.uintVal > maxInt64 {
			return "", encodeErrf(EncodeErrIntegerRange, "uint",
				"key %d exceeds the signed 64-bit range", k.uintVal)
		}
		return string(appendUint(nil, k.uintVal)), nil
	case KindFloat:
		b, ok := appendFloat(nil, k.floatVal, 64, e.flags.Has(OptAllowNonFinite))
		if !ok {
			return "", encodeErrf(EncodeErrNonFinite, "float", "non-finite key is not representable")
		}
		return string(b), nil
	case KindTime:
		if e.flags.Has(OptPassthroughTime) {
			return e.keyFallback(k)
		}
		b, ok := appendTime(nil, k.timeVal, k.naive, e.flags)
		if !ok {
			return "", encodeErrf(EncodeErrTimeRange, "time",
				"year %d outside the 0-9999 range", k.timeVal.Year())
		}
		return string(b), nil
	case KindUUID:
		if !e.flags.Has(OptSerializeUUID) {
			return "", encodeErrf(EncodeErrKeyType, "uuid", "uuid keys require OptSerializeUUID")
		}
		return k.uuidVal.String(), nil
	default:
		return "", encodeErrf(EncodeErrKeyType, k.kind.String(), "kind is not usable as an object key")
	}
}

// keyFallback routes a passed-through key to the hook, the same contract as
// value dispatch, then canonicalizes the substitute.
func (e *encoder) keyFallback(k *Value) (string, error) {
	name := k.kind.String()
	if e.hook == nil {
		return "", encodeErrf(EncodeErrUnsupported, name, "no adapter and no hook")
	}
	if e.hookCalls >= maxHookCalls {
		return "", encodeErrf(EncodeErrHook, name, "hook call limit exceeded")
	}
	e.hookCalls++
	sub, err := e.hook(k)
	if err != nil {
		return "", encodeErrf(EncodeErrHook, name, "%v", err)
	}
	if sub == k {
		return "", encodeErrf(EncodeErrHook, name, "hook returned its input unchanged")
	}
	return e.keyText(sub)
}
