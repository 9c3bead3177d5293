package class

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindHash
	KindObject
	KindType
)

// Value is the tagged union stored in fields, statics, and passed to and
// returned from methods.
type Value struct {
	kind ValueKind
	data any
}
