package sigil

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Native Go Bridge
// ============================================================
//
// Converts between ordinary Go values and the Value model, for callers who
// do not want to build trees by hand. FromNative is a convenience on top of
// Encode; it never changes what the codec itself accepts.

// FromNative converts a Go value into a Value. Scalars, strings, time.Time,
// uuid.UUID, []any, map[string]any, and flat numeric slices map to their
// obvious kinds; anything else becomes a Foreign value that only an encode
// hook can represent.
//
// Go maps iterate in unspecified order, so map keys are sorted to keep the
// resulting Object deterministic. Callers who care about a specific member
// order should construct Objects directly.
func FromNative(v any) (*Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Uint(uint64(val)), nil
	case uint8:
		return Uint(uint64(val)), nil
	case uint16:
		return Uint(uint64(val)), nil
	case uint32:
		return Uint(uint64(val)), nil
	case uint64:
		return Uint(val), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case time.Time:
		return Time(val), nil
	case uuid.UUID:
		return UUID(val), nil

	case []any:
		elems := make([]*Value, 0, len(val))
		for i, elem := range val {
			gv, err := FromNative(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			elems = append(elems, gv)
		}
		return Array(elems...), nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(val))
		for _, k := range keys {
			gv, err := FromNative(val[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			members = append(members, Field(k, gv))
		}
		return Object(members...), nil

	case []float64:
		return Numeric([]int{len(val)}, val)
	case []float32:
		return Numeric([]int{len(val)}, val)
	case []int64:
		return Numeric([]int{len(val)}, val)
	case []int32:
		return Numeric([]int{len(val)}, val)

	default:
		return Foreign(v), nil
	}
}

// ToNative converts a Value into ordinary Go values: objects become
// map[string]any (member order is lost; duplicate canonical keys collide
// last-wins), arrays []any, integers int64 or uint64, extended kinds their
// natural Go types. Foreign values return their wrapped host value.
func ToNative(v *Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.boolVal, nil
	case KindInt:
		return v.intVal, nil
	case KindUint:
		return v.uintVal, nil
	case KindFloat:
		return v.floatVal, nil
	case KindText:
		return v.strVal, nil
	case KindTime:
		return v.timeVal, nil
	case KindUUID:
		return v.uuidVal, nil
	case KindForeign:
		return v.foreignVal, nil
	case KindRaw:
		return []byte(v.strVal), nil

	case KindArray:
		out := make([]any, 0, len(v.arrVal))
		for i, elem := range v.arrVal {
			gv, err := ToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out = append(out, gv)
		}
		return out, nil

	case KindObject:
		out := make(map[string]any, len(v.objVal))
		for _, m := range v.objVal {
			key, err := m.Key.AsText()
			if err != nil {
				return nil, fmt.Errorf("object key: %w", err)
			}
			gv, err := ToNative(m.Value)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			out[key] = gv
		}
		return out, nil

	case KindEnum:
		return ToNative(v.enumVal.Value)

	case KindRecord:
		out := make(map[string]any, len(v.recVal.Fields))
		for _, m := range v.recVal.Fields {
			key, err := m.Key.AsText()
			if err != nil {
				return nil, fmt.Errorf("record key: %w", err)
			}
			gv, err := ToNative(m.Value)
			if err != nil {
				return nil, fmt.Errorf("record[%q]: %w", key, err)
			}
			out[key] = gv
		}
		return out, nil

	case KindNumeric:
		return v.numVal.native(), nil

	default:
		return nil, fmt.Errorf("sigil: cannot convert %s to a native value", v.kind)
	}
}

// native rebuilds the nested []any projection of a numeric array.
func (na *NumericArray) native() any {
	return na.nativeDim(0, 0, na.flatLen())
}

func (na *NumericArray) nativeDim(dim, lo, hi int) []any {
	count := na.shape[dim]
	out := make([]any, 0, count)
	if count == 0 {
		return out
	}
	if dim == len(na.shape)-1 {
		for i := lo; i < hi; i++ {
			out = append(out, na.elem(i))
		}
		return out
	}
	stride := (hi - lo) / count
	for i := 0; i < count; i++ {
		out = append(out, na.nativeDim(dim+1, lo+i*stride, lo+(i+1)*stride))
	}
	return out
}

func (na *NumericArray) elem(i int) any {
	switch na.dtype {
	case DTypeFloat64:
		return na.f64[i]
	case DTypeFloat32:
		return na.f32[i]
	case DTypeInt64:
		return na.i64[i]
	case DTypeInt32:
		return na.i32[i]
	case DTypeUint64:
		return na.u64[i]
	case DTypeBool:
		return na.bools[i]
	default:
		return math.NaN()
	}
}
