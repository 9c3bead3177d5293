package class

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(Config{Logger: zaptest.NewLogger(t)})
}

func compileType(t *testing.T, reg *Registry, d *Descriptor) *Type {
	t.Helper()
	typ, err := reg.Compile(d)
	require.NoError(t, err, "compile %s", d.Name)
	return typ
}

func mustNew(t *testing.T, typ *Type, args ...Value) *Object {
	t.Helper()
	obj, err := typ.New(args...)
	require.NoError(t, err, "new %s", typ.Name())
	require.NotNil(t, obj)
	return obj
}

func callString(t *testing.T, obj *Object, name string, args ...Value) string {
	t.Helper()
	v, err := obj.Call(name, args...)
	require.NoError(t, err, "call %s", name)
	return v.String()
}

func getter(field string) Method {
	return func(self *Self, _ ...Value) (Value, error) {
		return self.Get(field)
	}
}

func setter(field string) Method {
	return func(self *Self, args ...Value) (Value, error) {
		if len(args) == 0 {
			return NewNil(), errors.Newf("%s: value required", field)
		}
		return NewNil(), self.Set(field, args[0])
	}
}

func returns(s string) Method {
	return func(*Self, ...Value) (Value, error) {
		return NewString(s), nil
	}
}
