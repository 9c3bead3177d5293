package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveChain(t *testing.T, descs ...*Descriptor) []*ResolvedSet {
	t.Helper()
	var sets []*ResolvedSet
	var parent *ResolvedSet
	for _, d := range descs {
		own, err := ResolveOwn(d, nil)
		require.NoError(t, err)
		rs, err := ResolveWithParent(own, parent)
		require.NoError(t, err)
		sets = append(sets, rs)
		parent = rs
	}
	return sets
}

func TestResolveOwnDetectsDuplicates(t *testing.T) {
	d := &Descriptor{Name: "Dup"}
	d.Field("value", 1).Field("_value", 2)
	_, err := ResolveOwn(d, nil)
	require.Error(t, err)
	var dup *DuplicateMemberError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "value", dup.Member)
	assert.ErrorIs(t, err, ErrDuplicateMember)

	d = &Descriptor{Name: "DupStatic"}
	d.Field("$count", 1).Static("count", 2)
	_, err = ResolveOwn(d, nil)
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestResolveInheritsPublicAndProtectedOnly(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Field("name", "").Field("_legs", 4).Field("__secret", 23)
	b := &Descriptor{Name: "B", Extends: a}
	b.Field("color", "brown")

	sets := resolveChain(t, a, b)
	var names []string
	for _, m := range sets[1].Inherited {
		names = append(names, m.Name)
		assert.Equal(t, "A", m.Owner)
	}
	assert.Equal(t, []string{"legs", "name"}, names)
	assert.Empty(t, sets[1].Overridden)
}

func TestResolveOverridesAndWidening(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Method("_hook", returns("a")).Method("greet", returns("a"))

	narrow := &Descriptor{Name: "Narrow", Extends: a}
	narrow.Method("_greet", returns("n"))
	sets := resolveChain(t, a, narrow)
	assert.Equal(t, []string{"greet"}, sets[1].Overridden)

	wide := &Descriptor{Name: "Wide", Extends: a}
	wide.Method("hook", returns("w"))
	own, err := ResolveOwn(wide, nil)
	require.NoError(t, err)
	_, err = ResolveWithParent(own, sets[0])
	require.Error(t, err)
	var widening *VisibilityWideningError
	require.ErrorAs(t, err, &widening)
	assert.Equal(t, "hook", widening.Member)
	assert.Equal(t, "A", widening.Ancestor)
	assert.Equal(t, Protected, widening.Declared)
	assert.Equal(t, Public, widening.Override)
	assert.ErrorIs(t, err, ErrVisibilityWidening)
}

func TestResolveNarrowedMemberCannotBeWidenedAgain(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Method("greet", returns("a"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Method("_greet", returns("b"))
	c := &Descriptor{Name: "C", Extends: b}
	c.Method("greet", returns("c"))

	sets := resolveChain(t, a, b)
	own, err := ResolveOwn(c, nil)
	require.NoError(t, err)
	_, err = ResolveWithParent(own, sets[1])
	assert.ErrorIs(t, err, ErrVisibilityWidening)
}

func TestResolvePrivateDoesNotOverride(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Method("greet", returns("a")).Field("?speak", Abstract)
	b := &Descriptor{Name: "B", Extends: a}
	b.Method("__greet", returns("b")).Method("__speak", returns("b"))

	sets := resolveChain(t, a, b)
	assert.Empty(t, sets[1].Overridden)
	assert.Equal(t, []string{"speak"}, sets[1].Abstract)
}

func TestResolveKindMismatch(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Method("size", returns("1"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Field("size", 2)

	sets := resolveChain(t, a)
	own, err := ResolveOwn(b, nil)
	require.NoError(t, err)
	_, err = ResolveWithParent(own, sets[0])
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestResolveAbstractObligations(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Field("?speak", Abstract).Field("?_move", Abstract).Method("describe", returns("a"))
	b := &Descriptor{Name: "B", Extends: a}
	b.Method("_move", returns("walk")).Field("?describe", Abstract)
	c := &Descriptor{Name: "C", Extends: b}
	c.Method("speak", returns("woof")).Method("describe", returns("dog"))

	sets := resolveChain(t, a, b, c)

	assert.Equal(t, []string{"move", "speak"}, sets[0].Abstract)
	assert.Empty(t, sets[0].Implemented)

	assert.Equal(t, []string{"describe", "speak"}, sets[1].Abstract)
	assert.Equal(t, []string{"move"}, sets[1].Implemented)

	assert.Empty(t, sets[2].Abstract)
	assert.True(t, sets[2].Instantiable())
	assert.Equal(t, []string{"describe", "move", "speak"}, sets[2].Implemented)
}

func TestResolveIntermediateRedeclarationKeepsObligation(t *testing.T) {
	a := &Descriptor{Name: "A"}
	a.Field("?speak", Abstract)
	b := &Descriptor{Name: "B", Extends: a}
	b.Field("?speak", Abstract).Field("extra", 1)
	c := &Descriptor{Name: "C", Extends: b}
	c.Field("more", 2)
	d := &Descriptor{Name: "D", Extends: c}
	d.Method("speak", returns("hi"))

	sets := resolveChain(t, a, b, c, d)
	assert.Equal(t, []string{"speak"}, sets[1].Abstract)
	assert.Equal(t, []string{"speak"}, sets[1].Overridden)
	assert.Equal(t, []string{"speak"}, sets[2].Abstract)
	assert.Empty(t, sets[3].Abstract)
	assert.Equal(t, []string{"speak"}, sets[3].Implemented)
}
