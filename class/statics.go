package class

import (
	"maps"
	"sort"
	"sync"
)

// Statics is a type's static namespace. It is shared by every instance and
// guarded for concurrent use.
type Statics struct {
	owner    string
	mu       sync.RWMutex
	defaults map[string]Value
	values   map[string]Value
	funcs    map[string]StaticFunc
}

func newStatics(owner string, members []Member) *Statics {
	s := &Statics{
		owner:    owner,
		defaults: make(map[string]Value),
		funcs:    make(map[string]StaticFunc),
	}
	for _, m := range members {
		if m.Static != nil {
			s.funcs[m.Name] = m.Static
			continue
		}
		s.defaults[m.Name] = m.Default
	}
	s.values = maps.Clone(s.defaults)
	return s
}

func (s *Statics) Get(name string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	if !ok {
		return NewNil(), unknownMember(s.owner, "$"+name)
	}
	return v, nil
}

// Set assigns an existing static. Statics cannot be added after build.
func (s *Statics) Set(name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		return unknownMember(s.owner, "$"+name)
	}
	s.values[name] = v
	return nil
}

// Call runs a static function without holding the namespace lock, so fn may
// read and write statics.
func (s *Statics) Call(name string, args ...Value) (Value, error) {
	fn, ok := s.funcs[name]
	if !ok {
		return NewNil(), unknownMember(s.owner, "$"+name)
	}
	return fn(s, args...)
}

// Reset restores every static field to its declared default.
func (s *Statics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = maps.Clone(s.defaults)
}

// Names lists static fields and functions.
func (s *Statics) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values)+len(s.funcs))
	for name := range s.values {
		names = append(names, name)
	}
	for name := range s.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
