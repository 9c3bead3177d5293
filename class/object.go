package class

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Object is the facade an instance presents to code outside its class
// hierarchy. Only public members are reachable through it.
type Object struct {
	state *state
	id    uuid.UUID
}

// ID identifies the instance. Prototypes have the zero UUID.
func (o *Object) ID() uuid.UUID { return o.id }

func (o *Object) Type() *Type { return o.state.typ }

func (o *Object) Phase() Phase { return o.state.phase }

func (o *Object) IsInstanceOf(t *Type) bool { return IsInstanceOf(o, t) }

// Has reports whether name is a public member.
func (o *Object) Has(name string) bool {
	m, ok := o.state.typ.surface[name]
	return ok && m.Visibility == Public
}

func (o *Object) Get(name string) (Value, error) {
	m, err := o.public(name)
	if err != nil {
		return NewNil(), err
	}
	if m.callable() {
		return NewNil(), wrongKind(o.state.typ.name, name, "field")
	}
	return o.state.shared[name], nil
}

func (o *Object) Set(name string, v Value) error {
	m, err := o.public(name)
	if err != nil {
		return err
	}
	if m.callable() {
		return wrongKind(o.state.typ.name, name, "field")
	}
	o.state.shared[name] = v
	return nil
}

func (o *Object) Call(name string, args ...Value) (Value, error) {
	m, err := o.public(name)
	if err != nil {
		return NewNil(), err
	}
	if !m.callable() {
		return NewNil(), wrongKind(o.state.typ.name, name, "method")
	}
	return o.state.call(name, args)
}

func (o *Object) public(name string) (Member, error) {
	st := o.state
	if err := st.usable(); err != nil {
		return Member{}, err
	}
	m, ok := st.typ.surface[name]
	if !ok {
		if st.hiddenPrivate(name) {
			return Member{}, notVisible(st.typ.name, name, Private)
		}
		return Member{}, unknownMember(st.typ.name, name)
	}
	if m.Visibility != Public {
		return Member{}, notVisible(st.typ.name, name, m.Visibility)
	}
	return m, nil
}

func (o *Object) String() string {
	if o.state.phase == PhasePrototype {
		return fmt.Sprintf("<%s prototype>", o.state.typ.name)
	}
	return fmt.Sprintf("<%s instance>", o.state.typ.name)
}

// Self is the view a method body or Init has of its instance. It is bound to
// the level that declared the running code: public and protected members of
// the whole instance are reachable, and so are the private members of that
// level and no other.
type Self struct {
	state *state
	level *Type
	entry *dispatchEntry
}

// Type returns the level the running code was declared in.
func (s *Self) Type() *Type { return s.level }

// Object returns the public facade of the instance.
func (s *Self) Object() *Object { return s.state.object }

// Value wraps the public facade, for methods that return their receiver.
func (s *Self) Value() Value { return NewObject(s.state.object) }

func (s *Self) Statics() *Statics { return s.level.statics }

func (s *Self) Has(name string) bool {
	if _, ok := s.level.privates[name]; ok {
		return true
	}
	_, ok := s.state.typ.surface[name]
	return ok
}

func (s *Self) Get(name string) (Value, error) {
	if err := s.state.usable(); err != nil {
		return NewNil(), err
	}
	if m, ok := s.level.privates[name]; ok {
		if m.callable() {
			return NewNil(), wrongKind(s.level.name, name, "field")
		}
		return s.state.private[s.level][name], nil
	}
	m, err := s.inherited(name)
	if err != nil {
		return NewNil(), err
	}
	if m.callable() {
		return NewNil(), wrongKind(s.level.name, name, "field")
	}
	return s.state.shared[name], nil
}

func (s *Self) Set(name string, v Value) error {
	if err := s.state.usable(); err != nil {
		return err
	}
	if m, ok := s.level.privates[name]; ok {
		if m.callable() {
			return wrongKind(s.level.name, name, "field")
		}
		if s.state.private[s.level] == nil {
			s.state.private[s.level] = make(map[string]Value)
		}
		s.state.private[s.level][name] = v
		return nil
	}
	m, err := s.inherited(name)
	if err != nil {
		return err
	}
	if m.callable() {
		return wrongKind(s.level.name, name, "field")
	}
	s.state.shared[name] = v
	return nil
}

// Call invokes a method. A private method of the current level takes
// precedence; anything else dispatches to the most-derived implementation.
func (s *Self) Call(name string, args ...Value) (Value, error) {
	if err := s.state.usable(); err != nil {
		return NewNil(), err
	}
	if m, ok := s.level.privates[name]; ok {
		if !m.callable() {
			return NewNil(), wrongKind(s.level.name, name, "method")
		}
		return m.Method(s.state.bind(s.level, nil), args...)
	}
	m, err := s.inherited(name)
	if err != nil {
		return NewNil(), err
	}
	if !m.callable() {
		return NewNil(), wrongKind(s.level.name, name, "method")
	}
	return s.state.call(name, args)
}

// Super invokes the nearest ancestor implementation of the method currently
// running.
func (s *Self) Super(args ...Value) (Value, error) {
	if err := s.state.usable(); err != nil {
		return NewNil(), err
	}
	if s.entry == nil {
		return NewNil(), errors.Wrapf(ErrNoSuperMethod, "class %s: not inside an overridable method", s.level.name)
	}
	up := s.entry.superImpl()
	if up == nil {
		return NewNil(), errors.Wrapf(ErrNoSuperMethod, "class %s: %s", s.level.name, s.entry.name)
	}
	return up.impl(s.state.bind(up.owner, up), args...)
}

// New constructs another instance from inside this one's methods or Init.
// Constructing a type whose constructor is already running in this call
// fails with ReentrantConstructionError.
func (s *Self) New(t *Type, args ...Value) (*Object, error) {
	cons := s.state.cons
	if cons == nil {
		cons = &construction{active: make(map[*Type]bool)}
	}
	return t.instantiate(cons, args)
}

func (s *Self) inherited(name string) (Member, error) {
	m, ok := s.state.typ.surface[name]
	if !ok {
		if s.state.hiddenPrivate(name) {
			return Member{}, notVisible(s.level.name, name, Private)
		}
		return Member{}, unknownMember(s.level.name, name)
	}
	return m, nil
}
