package class

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewArray(a []Value) Value { return Value{kind: KindArray, data: a} }
func NewHash(h map[string]Value) Value {
	return Value{kind: KindHash, data: h}
}
func NewObject(obj *Object) Value {
	if obj == nil {
		return NewNil()
	}
	return Value{kind: KindObject, data: obj}
}
func NewType(t *Type) Value {
	if t == nil {
		return NewNil()
	}
	return Value{kind: KindType, data: t}
}
