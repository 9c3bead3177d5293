package class

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindHash:
		return "hash"
	case KindObject:
		return "object"
	case KindType:
		return "type"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNil:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.data.(int64))
	case KindFloat:
		return fmt.Sprintf("%g", v.data.(float64))
	case KindArray:
		elems := v.data.([]Value)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.String()
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case KindHash:
		entries := v.data.(map[string]Value)
		if len(entries) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(entries))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, entries[k].String()))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case KindObject:
		return v.data.(*Object).String()
	case KindType:
		return fmt.Sprintf("<Class %s>", v.data.(*Type).Name())
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.data.(int64) != 0
	case KindFloat:
		return v.data.(float64) != 0
	case KindString:
		return v.data.(string) != ""
	case KindArray:
		return len(v.data.([]Value)) > 0
	case KindHash:
		return len(v.data.(map[string]Value)) > 0
	default:
		return true
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.data.(int64) == other.data.(int64)
	case KindFloat:
		return v.data.(float64) == other.data.(float64)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		a, b := v.Array(), other.Array()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindHash:
		a, b := v.Hash(), other.Hash()
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case KindObject:
		return v.data.(*Object) == other.data.(*Object)
	case KindType:
		return v.data.(*Type) == other.data.(*Type)
	default:
		return v.data == other.data
	}
}

// ValueOf converts a raw Go value from an authored descriptor. A nil input
// becomes null.
func ValueOf(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NewNil(), nil
	case Value:
		return x, nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case uint:
		return NewInt(int64(x)), nil
	case uint64:
		return NewInt(int64(x)), nil
	case float32:
		return NewFloat(float64(x)), nil
	case float64:
		return NewFloat(x), nil
	case *Object:
		return NewObject(x), nil
	case *Type:
		return NewType(x), nil
	case []Value:
		return NewArray(x), nil
	case map[string]Value:
		return NewHash(x), nil
	case []any:
		out := make([]Value, len(x))
		for i, elem := range x {
			val, err := ValueOf(elem)
			if err != nil {
				return NewNil(), err
			}
			out[i] = val
		}
		return NewArray(out), nil
	case map[string]any:
		out := make(map[string]Value, len(x))
		for k, elem := range x {
			val, err := ValueOf(elem)
			if err != nil {
				return NewNil(), err
			}
			out[k] = val
		}
		return NewHash(out), nil
	default:
		return NewNil(), errors.Newf("unsupported value type %s", reflect.TypeOf(raw))
	}
}
