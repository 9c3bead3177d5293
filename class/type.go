package class

import (
	"fmt"
	"slices"
	"sort"
	"sync/atomic"
)

// Type is a built class. It is immutable after Build except for its static
// namespace, and safe for concurrent construction.
type Type struct {
	id     uint64
	name   string
	parent *Type
	// chain holds the ancestor identities from the root down to this type,
	// so chain[d] is the ancestor at depth d.
	chain []*Type
	set   *ResolvedSet

	surface  map[string]Member
	dispatch map[string]*dispatchEntry
	privates map[string]Member
	fields   []Member

	init      Method
	superArgs func([]Value) []Value
	statics   *Statics

	recursionLimit int
	inflight       atomic.Int64
}

func (t *Type) Name() string { return t.name }

func (t *Type) ID() uint64 { return t.id }

func (t *Type) Parent() *Type { return t.parent }

// Depth is 0 for a root type.
func (t *Type) Depth() int { return len(t.chain) - 1 }

// Ancestors returns the identity chain from the root down to t, inclusive.
func (t *Type) Ancestors() []*Type { return slices.Clone(t.chain) }

// Resolved returns the resolved property set t was built from. Callers must
// not modify it.
func (t *Type) Resolved() *ResolvedSet { return t.set }

// Obligations lists the abstract methods that still lack an implementation.
func (t *Type) Obligations() []string { return slices.Clone(t.set.Abstract) }

func (t *Type) IsAbstract() bool { return !t.set.Instantiable() }

// IsSubtypeOf reports whether t is other or descends from it.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	d := len(other.chain) - 1
	return d < len(t.chain) && t.chain[d] == other
}

// IsInstanceOf reports whether obj was constructed (or prototyped) from t or
// one of its descendants.
func IsInstanceOf(obj *Object, t *Type) bool {
	if obj == nil || obj.state == nil {
		return false
	}
	return obj.state.typ.IsSubtypeOf(t)
}

// PublicMembers lists the names callers outside the class hierarchy can use.
func (t *Type) PublicMembers() []string {
	var names []string
	for name, m := range t.surface {
		if m.Visibility == Public {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Member returns the most-derived public or protected declaration of name.
func (t *Type) Member(name string) (Member, bool) {
	m, ok := t.surface[name]
	return m, ok
}

// Implementation returns the type whose body handles name under normal
// dispatch.
func (t *Type) Implementation(name string) (*Type, bool) {
	e, ok := t.dispatch[name]
	if !ok || e.impl == nil {
		return nil, false
	}
	return e.owner, true
}

// Statics returns the type's static namespace.
func (t *Type) Statics() *Statics { return t.statics }

func (t *Type) Static(name string) (Value, error) { return t.statics.Get(name) }

func (t *Type) SetStatic(name string, v Value) error { return t.statics.Set(name, v) }

func (t *Type) CallStatic(name string, args ...Value) (Value, error) {
	return t.statics.Call(name, args...)
}

// InitStatics resets every static to its declared default. Calling it again
// has no further effect, and instance state is never touched.
func (t *Type) InitStatics() { t.statics.Reset() }

func (t *Type) String() string {
	return fmt.Sprintf("<Class %s>", t.name)
}
