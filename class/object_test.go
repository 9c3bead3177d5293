package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vault builds A <- B <- C where A keeps a private "secret" behind a public
// getter and setter, and B and C try to reach it.
func vault(t *testing.T) (*Type, *Type, *Type) {
	t.Helper()
	a := &Descriptor{Name: "A"}
	a.Field("__secret", 23).
		Field("_shared", "protected").
		Field("open", "public").
		Method("getSecret", getter("secret")).
		Method("setSecret", setter("secret")).
		Method("__murmur", returns("a-private"))
	a.Method("whisper", func(self *Self, _ ...Value) (Value, error) {
		return self.Call("murmur")
	})

	b := &Descriptor{Name: "B", Extends: a}
	b.Method("peekFromB", getter("secret")).
		Method("sharedFromB", getter("shared")).
		Method("callWhisperFromB", func(self *Self, _ ...Value) (Value, error) {
			return self.Call("whisper")
		}).
		Method("murmurFromB", func(self *Self, _ ...Value) (Value, error) {
			return self.Call("murmur")
		})

	c := &Descriptor{Name: "C", Extends: b}
	c.Field("__secret", "c-only").
		Method("cSecret", getter("secret")).
		Method("setCSecret", setter("secret"))

	reg := newTestRegistry(t)
	return compileType(t, reg, a), compileType(t, reg, b), compileType(t, reg, c)
}

func TestFacadeExposesPublicOnly(t *testing.T) {
	_, tb, _ := vault(t)
	obj := mustNew(t, tb)

	v, err := obj.Get("open")
	require.NoError(t, err)
	assert.Equal(t, "public", v.String())

	_, err = obj.Get("shared")
	assert.ErrorIs(t, err, ErrNotVisible)
	assert.Contains(t, err.Error(), "protected member")

	_, err = obj.Get("secret")
	assert.ErrorIs(t, err, ErrNotVisible)
	assert.Contains(t, err.Error(), "private member")

	_, err = obj.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownMember)

	assert.True(t, obj.Has("open"))
	assert.False(t, obj.Has("shared"))
	assert.False(t, obj.Has("secret"))
}

func TestFacadeKindChecks(t *testing.T) {
	_, tb, _ := vault(t)
	obj := mustNew(t, tb)

	_, err := obj.Get("getSecret")
	assert.ErrorIs(t, err, ErrUnknownMember)
	assert.Contains(t, err.Error(), "not a field")

	_, err = obj.Call("open")
	assert.ErrorIs(t, err, ErrUnknownMember)
	assert.Contains(t, err.Error(), "not a method")

	assert.ErrorIs(t, obj.Set("whisper", NewNil()), ErrUnknownMember)
	assert.ErrorIs(t, obj.Set("brandNew", NewInt(1)), ErrUnknownMember, "member presence is fixed")
}

func TestPrivateVisibleOnlyToDeclaringLevel(t *testing.T) {
	_, tb, tc := vault(t)

	b := mustNew(t, tb)
	assert.Equal(t, "23", callString(t, b, "getSecret"))
	_, err := b.Call("peekFromB")
	assert.ErrorIs(t, err, ErrNotVisible, "B's methods cannot read A's private")
	assert.Equal(t, "protected", callString(t, b, "sharedFromB"))

	require.NoError(t, func() error { _, err := b.Call("setSecret", NewInt(24)); return err }())
	assert.Equal(t, "24", callString(t, b, "getSecret"))

	c := mustNew(t, tc)
	assert.Equal(t, "c-only", callString(t, c, "cSecret"))
	assert.Equal(t, "23", callString(t, c, "getSecret"), "C's private does not shadow A's")

	_, err = c.Call("setCSecret", NewString("changed"))
	require.NoError(t, err)
	assert.Equal(t, "23", callString(t, c, "getSecret"))
	assert.Equal(t, "changed", callString(t, c, "cSecret"))

	_, err = c.Get("secret")
	assert.ErrorIs(t, err, ErrNotVisible)
}

func TestPrivateMethodsStayAtTheirLevel(t *testing.T) {
	_, tb, _ := vault(t)
	obj := mustNew(t, tb)

	assert.Equal(t, "a-private", callString(t, obj, "whisper"))

	assert.Equal(t, "a-private", callString(t, obj, "callWhisperFromB"))

	_, err := obj.Call("murmurFromB")
	assert.ErrorIs(t, err, ErrNotVisible)
	_, err = obj.Call("murmur")
	assert.ErrorIs(t, err, ErrNotVisible)
}

func TestNarrowedOverrideHidesMemberFromFacade(t *testing.T) {
	reg := newTestRegistry(t)
	a := &Descriptor{Name: "A"}
	a.Method("greet", returns("a"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Method("_greet", returns("b")).Method("hello", func(self *Self, _ ...Value) (Value, error) {
		return self.Call("greet")
	})
	ta, tb := compileType(t, reg, a), compileType(t, reg, b)

	assert.Equal(t, "a", callString(t, mustNew(t, ta), "greet"))

	obj := mustNew(t, tb)
	_, err := obj.Call("greet")
	assert.ErrorIs(t, err, ErrNotVisible)
	assert.Equal(t, "b", callString(t, obj, "hello"))
}

func TestSuperDelegation(t *testing.T) {
	reg := newTestRegistry(t)
	concat := func(prefix string) Method {
		return func(self *Self, args ...Value) (Value, error) {
			up, err := self.Super(args...)
			if err != nil {
				return NewNil(), err
			}
			return NewString(prefix + up.String()), nil
		}
	}
	a := &Descriptor{Name: "A"}
	a.Method("greet", returns("A")).Method("solo", concat("x"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Method("greet", concat("B>"))
	c := &Descriptor{Name: "C", Extends: b}
	c.Method("greet", concat("C>"))
	tc := compileType(t, reg, c)

	obj := mustNew(t, tc)
	assert.Equal(t, "C>B>A", callString(t, obj, "greet"))

	_, err := obj.Call("solo")
	assert.ErrorIs(t, err, ErrNoSuperMethod)
}

func TestSuperSkipsAbstractRedeclaration(t *testing.T) {
	reg := newTestRegistry(t)
	a := &Descriptor{Name: "A"}
	a.Method("speak", returns("generic"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Field("?speak", Abstract)
	c := &Descriptor{Name: "C", Extends: b}
	c.Method("speak", func(self *Self, _ ...Value) (Value, error) {
		up, err := self.Super()
		return NewString("specific, not " + up.String()), err
	})
	tb, tc := compileType(t, reg, b), compileType(t, reg, c)

	_, err := tb.New()
	assert.ErrorIs(t, err, ErrUnresolvedAbstract)
	assert.Equal(t, "specific, not generic", callString(t, mustNew(t, tc), "speak"))
}

func TestSuperOutsideMethod(t *testing.T) {
	reg := newTestRegistry(t)
	typ := compileType(t, reg, &Descriptor{Name: "Lonely", Init: func(self *Self, _ ...Value) (Value, error) {
		return self.Super()
	}})
	_, err := typ.New()
	assert.ErrorIs(t, err, ErrNoSuperMethod)
}

func TestSelfValueAndType(t *testing.T) {
	reg := newTestRegistry(t)
	a := &Descriptor{Name: "A"}
	a.Method("me", func(self *Self, _ ...Value) (Value, error) { return self.Value(), nil }).
		Method("level", func(self *Self, _ ...Value) (Value, error) { return NewType(self.Type()), nil })
	b := &Descriptor{Name: "B", Extends: a}
	ta, tb := compileType(t, reg, a), compileType(t, reg, b)

	obj := mustNew(t, tb)
	me, err := obj.Call("me")
	require.NoError(t, err)
	assert.Same(t, obj, me.Object())

	level, err := obj.Call("level")
	require.NoError(t, err)
	assert.Same(t, ta, level.Type())
	assert.Equal(t, "<B instance>", obj.String())
}
