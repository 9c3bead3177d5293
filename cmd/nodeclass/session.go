package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mgomes/nodeclass/class"
)

// session evaluates REPL statements against a compiled workspace:
//
//	x = new Dog "Rex"     construct and bind
//	x.speak               call a method, or read a field
//	x.name = "Rex"        assign a public field
//	x is Animal           instance test
//	Dog::kind             read a static, or call a static function
//	Dog::kind = "wolf"    assign a static
type session struct {
	ws   *workspace
	vars map[string]*class.Object
}

func newSession(ws *workspace) *session {
	return &session{ws: ws, vars: make(map[string]*class.Object)}
}

var errSyntax = errors.New("syntax error")

func (s *session) eval(line string) (string, error) {
	words, err := splitWords(line)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}

	switch {
	case len(words) >= 2 && words[1] == "=":
		return s.assign(words[0], words[2:])
	case words[0] == "new":
		obj, err := s.construct(words[1:])
		if err != nil {
			return "", err
		}
		s.vars["_"] = obj
		return obj.String(), nil
	case len(words) == 3 && words[1] == "is":
		obj, err := s.variable(words[0])
		if err != nil {
			return "", err
		}
		t, err := s.ws.lookup(words[2])
		if err != nil {
			return "", err
		}
		return fmt.Sprint(obj.IsInstanceOf(t)), nil
	case strings.Contains(words[0], "::"):
		return s.static(words[0], words[1:])
	case strings.Contains(words[0], "."):
		return s.member(words[0], words[1:])
	case len(words) == 1:
		obj, err := s.variable(words[0])
		if err != nil {
			return "", err
		}
		return obj.String(), nil
	default:
		return "", errors.Wrapf(errSyntax, "%q", line)
	}
}

func (s *session) assign(target string, rhs []string) (string, error) {
	if len(rhs) == 0 {
		return "", errors.Wrap(errSyntax, "missing value after =")
	}
	if typeName, name, ok := strings.Cut(target, "::"); ok {
		t, err := s.ws.lookup(typeName)
		if err != nil {
			return "", err
		}
		v := s.value(rhs[0])
		if err := t.SetStatic(name, v); err != nil {
			return "", err
		}
		return v.String(), nil
	}
	if varName, field, ok := strings.Cut(target, "."); ok {
		obj, err := s.variable(varName)
		if err != nil {
			return "", err
		}
		v := s.value(rhs[0])
		if err := obj.Set(field, v); err != nil {
			return "", err
		}
		return v.String(), nil
	}
	if !isValidIdentifier(target) {
		return "", errors.Wrapf(errSyntax, "cannot assign to %q", target)
	}
	if rhs[0] != "new" {
		if obj, ok := s.vars[rhs[0]]; ok && len(rhs) == 1 {
			s.vars[target] = obj
			return obj.String(), nil
		}
		return "", errors.WithHint(errors.Wrap(errSyntax, "variables hold instances"),
			"write: x = new ClassName args...")
	}
	obj, err := s.construct(rhs[1:])
	if err != nil {
		return "", err
	}
	s.vars[target] = obj
	return obj.String(), nil
}

func (s *session) construct(words []string) (*class.Object, error) {
	if len(words) == 0 {
		return nil, errors.Wrap(errSyntax, "new needs a class name")
	}
	t, err := s.ws.lookup(words[0])
	if err != nil {
		return nil, err
	}
	return t.New(s.values(words[1:])...)
}

func (s *session) member(expr string, args []string) (string, error) {
	varName, name, _ := strings.Cut(expr, ".")
	obj, err := s.variable(varName)
	if err != nil {
		return "", err
	}
	if m, ok := obj.Type().Member(name); ok && m.Kind != class.FieldMember {
		v, err := obj.Call(name, s.values(args)...)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	if len(args) > 0 {
		return "", errors.Wrapf(errSyntax, "%s is not a method", expr)
	}
	v, err := obj.Get(name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (s *session) static(expr string, args []string) (string, error) {
	typeName, name, _ := strings.Cut(expr, "::")
	t, err := s.ws.lookup(typeName)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		if v, err := t.Static(name); err == nil {
			return v.String(), nil
		}
	}
	v, err := t.CallStatic(name, s.values(args)...)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (s *session) variable(name string) (*class.Object, error) {
	obj, ok := s.vars[name]
	if !ok {
		return nil, errors.Newf("undefined variable %q", name)
	}
	return obj, nil
}

// value resolves a word to a bound instance or a literal.
func (s *session) value(word string) class.Value {
	if obj, ok := s.vars[word]; ok {
		return class.NewObject(obj)
	}
	return parseLiteral(word)
}

func (s *session) values(words []string) []class.Value {
	out := make([]class.Value, len(words))
	for i, w := range words {
		out[i] = s.value(w)
	}
	return out
}

// reinit resets a class's statics.
func (s *session) reinit(name string) error {
	return s.ws.registry.InitStatics(name)
}

func (s *session) types() []string {
	var lines []string
	for _, t := range s.ws.registry.Types() {
		line := t.Name()
		if p := t.Parent(); p != nil {
			line += " < " + p.Name()
		}
		if t.IsAbstract() {
			line += " (abstract: " + strings.Join(t.Obligations(), ", ") + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
				return false
			}
		}
	}
	return true
}
