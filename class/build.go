package class

import (
	"slices"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Intent tells Build how the type will be used.
type Intent int

const (
	// IntentExtend builds a type that may still carry abstract obligations.
	// Such a type serves as a parent; constructing it fails.
	IntentExtend Intent = iota
	// IntentInstantiate requires every abstract obligation to be resolved.
	IntentInstantiate
)

var typeIDs atomic.Uint64

// dispatchEntry is the most-derived declaration of a public or protected
// method. impl is nil for abstract declarations; next links to the entry the
// parent type dispatches to, for super-delegation.
type dispatchEntry struct {
	name       string
	impl       Method
	owner      *Type
	visibility Visibility
	next       *dispatchEntry
}

// superImpl returns the nearest concrete implementation above e.
func (e *dispatchEntry) superImpl() *dispatchEntry {
	for up := e.next; up != nil; up = up.next {
		if up.impl != nil {
			return up
		}
	}
	return nil
}

// Build synthesizes a Type from a resolved set. parent must be the type
// built from set's parent resolved set, or nil for a root.
func Build(set *ResolvedSet, parent *Type, intent Intent) (*Type, error) {
	if set == nil {
		return nil, errors.AssertionFailedf("build: nil resolved set")
	}
	switch {
	case parent == nil && set.parent != nil:
		return nil, errors.AssertionFailedf("build %s: resolved against %s but no parent type given",
			set.Type, set.parent.Type)
	case parent != nil && set.parent != parent.set:
		return nil, errors.AssertionFailedf("build %s: parent type %s does not match the resolved parent",
			set.Type, parent.Name())
	}
	if intent == IntentInstantiate && !set.Instantiable() {
		return nil, &UnresolvedAbstractError{Type: set.Type, Members: slices.Clone(set.Abstract)}
	}

	t := &Type{
		id:        typeIDs.Add(1),
		name:      set.Type,
		parent:    parent,
		set:       set,
		surface:   make(map[string]Member),
		dispatch:  make(map[string]*dispatchEntry),
		privates:  make(map[string]Member),
		init:      set.init,
		superArgs: set.superArgs,
		statics:   newStatics(set.Type, set.Statics),
	}

	if parent != nil {
		chain, err := parent.link()
		if err != nil {
			return nil, err
		}
		t.chain = append(chain, t)
		for name, m := range parent.surface {
			t.surface[name] = m
		}
		for name, e := range parent.dispatch {
			t.dispatch[name] = e
		}
	} else {
		t.chain = []*Type{t}
	}

	for _, m := range set.Members {
		if m.Visibility == Private {
			t.privates[m.Name] = m
			if m.Kind == FieldMember {
				t.fields = append(t.fields, m)
			}
			continue
		}
		t.surface[m.Name] = m
		switch m.Kind {
		case FieldMember:
			t.fields = append(t.fields, m)
		case MethodMember, AbstractMember:
			t.dispatch[m.Name] = &dispatchEntry{
				name:       m.Name,
				impl:       m.Method,
				owner:      t,
				visibility: m.Visibility,
				next:       t.dispatch[m.Name],
			}
		}
	}
	return t, nil
}

// link walks the type in Prototyping mode to produce the identity chain a
// child extends. No field initialisers or Init run.
func (t *Type) link() ([]*Type, error) {
	proto := &state{typ: t, phase: PhasePrototype}
	if err := t.construct(proto, ModePrototyping, nil); err != nil {
		return nil, err
	}
	return slices.Clip(slices.Clone(t.chain)), nil
}
