package class

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Mode is the instantiation protocol state a level's constructor runs in.
type Mode int

const (
	// ModePrototyping links a type into a chain for identity checks only.
	ModePrototyping Mode = iota
	// ModeSuperConstructing runs an ancestor level on behalf of a descendant.
	ModeSuperConstructing
	// ModeLeafConstructing runs the most-derived level, the one user code
	// asked for.
	ModeLeafConstructing
)

func (m Mode) String() string {
	switch m {
	case ModePrototyping:
		return "prototyping"
	case ModeSuperConstructing:
		return "super-constructing"
	case ModeLeafConstructing:
		return "leaf-constructing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Phase is the lifecycle of an instance's internal state.
type Phase int

const (
	PhasePrototype Phase = iota
	PhaseConstructing
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePrototype:
		return "prototype"
	case PhaseConstructing:
		return "constructing"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const defaultRecursionLimit = 64

// construction tracks the levels whose constructor is running for one
// top-level New call, including objects created from Init through Self.New.
// A level is active only while its own construct frame is on the stack.
type construction struct {
	active map[*Type]bool
}

// state is an instance's internal record. Public and protected fields share
// one namespace; private fields are kept per declaring level.
type state struct {
	typ     *Type
	phase   Phase
	shared  map[string]Value
	private map[*Type]map[string]Value
	cons    *construction
	object  *Object
}

// New constructs an instance. Ancestor levels run root first, each storing
// its field defaults and then running its Init. Either a ready instance or
// an error is returned, never both.
func (t *Type) New(args ...Value) (*Object, error) {
	return t.instantiate(&construction{active: make(map[*Type]bool)}, args)
}

// Prototype returns an identity-only stand-in: type tests succeed, but no
// field initialiser or Init has run and member access fails.
func (t *Type) Prototype() *Object {
	st := &state{typ: t, phase: PhasePrototype}
	// Prototyping never runs user code and cannot fail.
	_ = t.construct(st, ModePrototyping, nil)
	st.object = &Object{state: st}
	return st.object
}

func (t *Type) instantiate(c *construction, args []Value) (*Object, error) {
	if !t.set.Instantiable() {
		return nil, &UnresolvedAbstractError{Type: t.name, Members: slices.Clone(t.set.Abstract)}
	}
	// Type.New called from an Init starts a fresh construction, so the
	// active set cannot see it. The in-flight count is shared by every
	// goroutine; only the stack walk tells recursion from concurrency.
	limit := t.limit()
	if t.inflight.Add(1) > int64(limit) && nestedInstantiations() > limit {
		t.inflight.Add(-1)
		return nil, &ReentrantConstructionError{Type: t.name}
	}
	defer t.inflight.Add(-1)

	st := &state{
		typ:     t,
		phase:   PhaseConstructing,
		shared:  make(map[string]Value),
		private: make(map[*Type]map[string]Value, len(t.chain)),
		cons:    c,
	}
	st.object = &Object{state: st, id: uuid.New()}

	err := t.construct(st, ModeLeafConstructing, args)
	st.cons = nil
	if err != nil {
		st.phase = PhaseFailed
		return nil, err
	}
	st.phase = PhaseReady
	return st.object, nil
}

func (t *Type) construct(st *state, mode Mode, args []Value) error {
	if mode == ModePrototyping {
		if t.parent != nil {
			return t.parent.construct(st, ModePrototyping, nil)
		}
		return nil
	}

	// Levels are checked leaf to root before any Init runs, so a rejected
	// construction never runs an Init.
	c := st.cons
	if c.active[t] {
		return &ReentrantConstructionError{Type: t.name}
	}
	c.active[t] = true
	defer delete(c.active, t)

	if t.parent != nil {
		if err := t.parent.construct(st, ModeSuperConstructing, t.forwardArgs(args)); err != nil {
			return err
		}
	}

	for _, f := range t.fields {
		if f.Visibility == Private {
			if st.private[t] == nil {
				st.private[t] = make(map[string]Value)
			}
			st.private[t][f.Name] = f.Default
			continue
		}
		st.shared[f.Name] = f.Default
	}

	if t.init != nil {
		if _, err := t.init(st.bind(t, nil), args...); err != nil {
			return errors.Wrapf(err, "%s.init (%s)", t.name, mode)
		}
	}
	return nil
}

func (t *Type) limit() int {
	if t.recursionLimit > 0 {
		return t.recursionLimit
	}
	return defaultRecursionLimit
}

// nestedInstantiations counts the instantiate frames on the calling
// goroutine's stack.
func nestedInstantiations() int {
	pcs := make([]uintptr, 256)
	for {
		n := runtime.Callers(1, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, 2*len(pcs))
	}
	count := 0
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.Function, ".(*Type).instantiate") {
			count++
		}
		if !more {
			return count
		}
	}
}

func (t *Type) forwardArgs(args []Value) []Value {
	if t.superArgs == nil {
		return args
	}
	return t.superArgs(slices.Clone(args))
}

func (st *state) bind(level *Type, entry *dispatchEntry) *Self {
	return &Self{state: st, level: level, entry: entry}
}

// usable rejects access to prototypes and to the state of a failed
// construction that leaked out of an Init.
func (st *state) usable() error {
	switch st.phase {
	case PhasePrototype:
		return errors.Wrapf(ErrPrototype, "class %s", st.typ.name)
	case PhaseFailed:
		return errors.Wrapf(ErrConstructionFailed, "class %s", st.typ.name)
	default:
		return nil
	}
}

// hiddenPrivate reports whether some level of the chain declares name as a
// private member.
func (st *state) hiddenPrivate(name string) bool {
	for _, level := range st.typ.chain {
		if _, ok := level.privates[name]; ok {
			return true
		}
	}
	return false
}

// call dispatches name on the leaf type to its most-derived concrete body.
func (st *state) call(name string, args []Value) (Value, error) {
	e, ok := st.typ.dispatch[name]
	if !ok {
		return NewNil(), unknownMember(st.typ.name, name)
	}
	if e.impl == nil {
		return NewNil(), &UnresolvedAbstractError{Type: st.typ.name, Members: []string{name}}
	}
	return e.impl(st.bind(e.owner, e), args...)
}
