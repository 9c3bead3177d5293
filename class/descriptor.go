package class

// Method is the body of an instance method or of a descriptor's Init. self is
// bound to the level that declared the method.
type Method func(self *Self, args ...Value) (Value, error)

// StaticFunc is a function attached to a type's static namespace.
type StaticFunc func(statics *Statics, args ...Value) (Value, error)

// Placeholder marks an abstract method. Use the Abstract value.
type Placeholder struct{}

var Abstract = Placeholder{}

// Entry is one authored member. Key carries the naming convention markers
// and Value is a primitive default, a Method, Abstract, or (for statics) a
// StaticFunc.
type Entry struct {
	Key   string
	Value any
}

// Descriptor is the authored, declarative description of a class.
type Descriptor struct {
	Name    string
	Extends *Descriptor
	Members []Entry
	Statics []Entry
	Init    Method
	// SuperArgs maps the construction arguments a level receives to the
	// arguments its parent receives. Nil forwards them unchanged.
	SuperArgs func(args []Value) []Value
}

// Field appends a member entry and returns d so descriptors can be written
// fluently.
func (d *Descriptor) Field(key string, value any) *Descriptor {
	d.Members = append(d.Members, Entry{Key: key, Value: value})
	return d
}

func (d *Descriptor) Method(key string, fn Method) *Descriptor {
	d.Members = append(d.Members, Entry{Key: key, Value: fn})
	return d
}

func (d *Descriptor) Static(key string, value any) *Descriptor {
	d.Statics = append(d.Statics, Entry{Key: key, Value: value})
	return d
}
