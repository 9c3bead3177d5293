package manifest

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mgomes/nodeclass/class"
)

// Compile turns every class of m into a descriptor, linking extends by name.
// Descriptors are keyed by class name.
func Compile(m *Manifest) (map[string]*class.Descriptor, error) {
	if m == nil {
		return nil, errors.Wrap(ErrInvalid, "nil manifest")
	}
	out := make(map[string]*class.Descriptor, len(m.Classes))
	for _, c := range m.Classes {
		if _, dup := out[c.Name]; dup {
			return nil, errors.Wrapf(ErrDuplicateClass, "%s: %s", c.Source, c.Name)
		}
		d, err := descriptor(c)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: class %s", c.Source, c.Name)
		}
		out[c.Name] = d
	}

	for _, c := range m.Classes {
		if c.Extends == "" {
			continue
		}
		parent, ok := out[c.Extends]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownParent, "%s: class %s extends %s", c.Source, c.Name, c.Extends)
		}
		out[c.Name].Extends = parent
	}

	for _, c := range m.Classes {
		seen := map[*class.Descriptor]bool{}
		path := []string{}
		for d := out[c.Name]; d != nil; d = d.Extends {
			path = append(path, d.Name)
			if seen[d] {
				return nil, errors.Wrapf(ErrCycle, "%s", strings.Join(path, " -> "))
			}
			seen[d] = true
		}
	}
	return out, nil
}

// Order returns class names with every parent ahead of its children, ties
// broken by name.
func Order(descriptors map[string]*class.Descriptor) []string {
	depth := func(d *class.Descriptor) int {
		n := 0
		for ; d.Extends != nil; d = d.Extends {
			n++
		}
		return n
	}
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := depth(descriptors[names[i]]), depth(descriptors[names[j]])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}

func descriptor(c Class) (*class.Descriptor, error) {
	d := &class.Descriptor{Name: c.Name}
	for _, key := range sortedKeys(c.Fields) {
		d.Field(key, c.Fields[key])
	}
	for _, key := range sortedKeys(c.Methods) {
		spec := c.Methods[key]
		if spec.Template() == "abstract" {
			if !strings.HasPrefix(key, "?") {
				key = "?" + key
			}
			d.Field(key, class.Abstract)
			continue
		}
		fn, err := method(key, spec)
		if err != nil {
			return nil, err
		}
		d.Method(key, fn)
	}
	for _, key := range sortedKeys(c.Statics) {
		d.Static(key, c.Statics[key])
	}
	if len(c.Init) > 0 {
		d.Init = initializer(c.Init)
	}
	if c.SuperArgs != nil {
		d.SuperArgs = pickArgs(c.SuperArgs)
	}
	return d, nil
}

func method(key string, spec MethodSpec) (class.Method, error) {
	switch spec.Template() {
	case "get":
		field := spec.Get
		return func(self *class.Self, _ ...class.Value) (class.Value, error) {
			return self.Get(field)
		}, nil
	case "set":
		field := spec.Set
		return func(self *class.Self, args ...class.Value) (class.Value, error) {
			return class.NewNil(), self.Set(field, arg(args, 0))
		}, nil
	case "return":
		value, err := class.ValueOf(spec.Return)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s", key)
		}
		return func(*class.Self, ...class.Value) (class.Value, error) {
			return value, nil
		}, nil
	case "call":
		target := spec.Call
		return func(self *class.Self, args ...class.Value) (class.Value, error) {
			return self.Call(target, args...)
		}, nil
	case "super":
		return func(self *class.Self, args ...class.Value) (class.Value, error) {
			return self.Super(args...)
		}, nil
	default:
		return nil, errors.Wrapf(ErrInvalid, "method %s: no single template", key)
	}
}

func initializer(assigns []Assign) class.Method {
	return func(self *class.Self, args ...class.Value) (class.Value, error) {
		for _, a := range assigns {
			if a.Arg >= len(args) {
				continue
			}
			if err := self.Set(a.Field, args[a.Arg]); err != nil {
				return class.NewNil(), err
			}
		}
		return class.NewNil(), nil
	}
}

func pickArgs(indexes []int) func([]class.Value) []class.Value {
	return func(args []class.Value) []class.Value {
		out := make([]class.Value, len(indexes))
		for i, idx := range indexes {
			out[i] = arg(args, idx)
		}
		return out
	}
}

func arg(args []class.Value, i int) class.Value {
	if i < len(args) {
		return args[i]
	}
	return class.NewNil()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
