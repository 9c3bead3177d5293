package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mgomes/nodeclass/class"
)

func compileAll(t *testing.T, paths ...string) *class.Registry {
	t.Helper()
	m, err := Load(paths...)
	require.NoError(t, err)
	descriptors, err := Compile(m)
	require.NoError(t, err)

	reg := class.NewRegistry(class.Config{Logger: zaptest.NewLogger(t)})
	for _, name := range Order(descriptors) {
		_, err := reg.Compile(descriptors[name])
		require.NoError(t, err, name)
	}
	return reg
}

func lookup(t *testing.T, reg *class.Registry, name string) *class.Type {
	t.Helper()
	typ, ok := reg.Lookup(name)
	require.True(t, ok, name)
	return typ
}

func call(t *testing.T, obj *class.Object, name string, args ...class.Value) class.Value {
	t.Helper()
	v, err := obj.Call(name, args...)
	require.NoError(t, err, name)
	return v
}

func TestCompiledTemplates(t *testing.T) {
	reg := compileAll(t, "testdata/animals.yaml")
	animal := lookup(t, reg, "Animal")
	dog := lookup(t, reg, "Dog")

	assert.True(t, animal.IsAbstract())
	assert.Equal(t, []string{"speak"}, animal.Obligations())
	_, err := animal.New()
	assert.ErrorIs(t, err, class.ErrUnresolvedAbstract)

	rex, err := dog.New(class.NewString("ignored"), class.NewString("Rex"))
	require.NoError(t, err)
	assert.True(t, rex.IsInstanceOf(animal))

	assert.Equal(t, "Rex", call(t, rex, "getName").String(), "superArgs hands the second argument to Animal's init")
	assert.Equal(t, "woof", call(t, rex, "speak").String())
	assert.Equal(t, "woof", call(t, rex, "introduce").String())
	assert.Equal(t, "an animal", call(t, rex, "describe").String())
	assert.Equal(t, int64(4), call(t, rex, "legCount").Int())
	assert.Equal(t, int64(23), call(t, rex, "getSecret").Int())

	call(t, rex, "setName", class.NewString("Fido"))
	name, err := rex.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Fido", name.String())

	_, err = rex.Get("legCount")
	assert.ErrorIs(t, err, class.ErrUnknownMember, "legCount is a method, not a field")
	_, err = rex.Get("tricks")
	assert.ErrorIs(t, err, class.ErrNotVisible)
	_, err = rex.Get("secret")
	assert.ErrorIs(t, err, class.ErrNotVisible)

	kind, err := animal.Static("kind")
	require.NoError(t, err)
	assert.Equal(t, "animal", kind.String())
}

func TestInitSkipsMissingArguments(t *testing.T) {
	reg := compileAll(t, "testdata/animals.yaml", "testdata/birds.yaml")

	bird, err := lookup(t, reg, "Bird").New()
	require.NoError(t, err)
	assert.Equal(t, "", call(t, bird, "getName").String())

	// superArgs always hands over as many arguments as it names, padding
	// with null.
	dog, err := lookup(t, reg, "Dog").New()
	require.NoError(t, err)
	assert.True(t, call(t, dog, "getName").IsNil())
}

func TestCompileAcrossFiles(t *testing.T) {
	reg := compileAll(t, "testdata/animals.yaml", "testdata/birds.yaml")
	bird := lookup(t, reg, "Bird")
	obj, err := bird.New(class.NewString("Tweety"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), call(t, obj, "legCount").Int())
	assert.Equal(t, "Tweety", call(t, obj, "getName").String())
	assert.Equal(t, "tweet", call(t, obj, "introduce").String())
}

func TestCompileTOML(t *testing.T) {
	reg := compileAll(t, "testdata/animals.toml")
	cat := lookup(t, reg, "Cat")
	obj, err := cat.New()
	require.NoError(t, err)
	assert.Equal(t, "meow", call(t, obj, "speak").String())
	assert.Equal(t, int64(0), call(t, obj, "nothing").Int())
}

func TestCompileLinkErrors(t *testing.T) {
	orphan := &Manifest{Schema: "1.0", Classes: []Class{{Name: "Orphan", Extends: "Nobody"}}}
	_, err := Compile(orphan)
	assert.ErrorIs(t, err, ErrUnknownParent)

	loop := &Manifest{Schema: "1.0", Classes: []Class{
		{Name: "A", Extends: "B"},
		{Name: "B", Extends: "C"},
		{Name: "C", Extends: "A"},
	}}
	_, err = Compile(loop)
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "A -> B -> C -> A")

	dup := &Manifest{Schema: "1.0", Classes: []Class{{Name: "A"}, {Name: "A"}}}
	_, err = Compile(dup)
	assert.ErrorIs(t, err, ErrDuplicateClass)
}

func TestCompileReportsDescriptorErrors(t *testing.T) {
	m := &Manifest{Schema: "1.0", Classes: []Class{{
		Name:    "Bad",
		Fields:  map[string]any{"tags": []any{"a"}},
		Methods: map[string]MethodSpec{"ok": {Get: "tags"}},
	}}}
	descriptors, err := Compile(m)
	require.NoError(t, err)

	_, err = class.NewRegistry(class.Config{}).Compile(descriptors["Bad"])
	assert.ErrorIs(t, err, class.ErrMalformedDescriptor)
}

func TestOrderPutsParentsFirst(t *testing.T) {
	m, err := Load("testdata/animals.yaml", "testdata/birds.yaml")
	require.NoError(t, err)
	descriptors, err := Compile(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"Animal", "Bird", "Dog"}, Order(descriptors))
}

func TestLoadRejectsDuplicatesAcrossFiles(t *testing.T) {
	_, err := Load("testdata/animals.yaml", "testdata/animals.toml")
	require.ErrorIs(t, err, ErrDuplicateClass)
	assert.Contains(t, err.Error(), "Animal already declared in testdata/animals.yaml")

	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load("testdata/broken.yaml")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}
