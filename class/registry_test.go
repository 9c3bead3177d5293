package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistryCachesPerDescriptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry(Config{Logger: zap.New(core)})

	base := &Descriptor{Name: "Base"}
	base.Field("id", 0)
	left := &Descriptor{Name: "Left", Extends: base}
	right := &Descriptor{Name: "Right", Extends: base}

	tl := compileType(t, reg, left)
	tr := compileType(t, reg, right)
	again := compileType(t, reg, left)

	assert.Same(t, tl, again)
	assert.Same(t, tl.Parent(), tr.Parent(), "shared parent is built once")

	compiled := logs.FilterMessage("type compiled").All()
	require.Len(t, compiled, 3)
	names := make([]string, 0, len(compiled))
	for _, entry := range compiled {
		assert.Equal(t, "class", entry.LoggerName)
		names = append(names, entry.ContextMap()["type"].(string))
	}
	assert.ElementsMatch(t, []string{"Base", "Left", "Right"}, names)
	assert.Equal(t, 1, logs.FilterMessage("type cache hit").Len())
}

func TestRegistryLookupAndTypes(t *testing.T) {
	reg := newTestRegistry(t)
	zeta := &Descriptor{Name: "Zeta"}
	alpha := &Descriptor{Name: "Alpha", Extends: zeta}
	compileType(t, reg, alpha)

	typ, ok := reg.Lookup("Zeta")
	require.True(t, ok)
	assert.Equal(t, 0, typ.Depth())
	_, ok = reg.Lookup("Missing")
	assert.False(t, ok)

	var names []string
	for _, typ := range reg.Types() {
		names = append(names, typ.Name())
	}
	assert.Equal(t, []string{"Alpha", "Zeta"}, names)

	reg.Reset()
	assert.Empty(t, reg.Types())
}

func TestRegistryRejectsCycles(t *testing.T) {
	reg := newTestRegistry(t)
	self := &Descriptor{Name: "Ouroboros"}
	self.Extends = self
	_, err := reg.Compile(self)
	assert.ErrorIs(t, err, ErrInheritanceCycle)

	a := &Descriptor{Name: "A"}
	b := &Descriptor{Name: "B", Extends: a}
	a.Extends = b
	_, err = reg.Compile(b)
	assert.ErrorIs(t, err, ErrInheritanceCycle)
}

func TestRegistryMaxDepth(t *testing.T) {
	reg := NewRegistry(Config{MaxDepth: 3})
	d := &Descriptor{Name: "L0"}
	for _, name := range []string{"L1", "L2"} {
		d = &Descriptor{Name: name, Extends: d}
	}
	typ, err := reg.Compile(d)
	require.NoError(t, err)
	assert.Equal(t, 2, typ.Depth())

	_, err = reg.Compile(&Descriptor{Name: "L3", Extends: d})
	assert.ErrorIs(t, err, ErrInheritanceDepth)
}

func TestRegistryDuplicateTypeName(t *testing.T) {
	reg := newTestRegistry(t)
	compileType(t, reg, &Descriptor{Name: "Dup"})

	_, err := reg.Compile(&Descriptor{Name: "Dup"})
	assert.ErrorIs(t, err, ErrDuplicateType)

	inner := &Descriptor{Name: "Twice"}
	_, err = reg.Compile(&Descriptor{Name: "Twice", Extends: inner})
	assert.ErrorIs(t, err, ErrDuplicateType)
	_, ok := reg.Lookup("Twice")
	assert.False(t, ok)
}

func TestRegistryNilDescriptor(t *testing.T) {
	_, err := newTestRegistry(t).Compile(nil)
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestRegistryInitStaticsByName(t *testing.T) {
	reg := newTestRegistry(t)
	d := &Descriptor{Name: "Settings"}
	d.Field("$mode", "fast")
	typ := compileType(t, reg, d)

	require.NoError(t, typ.SetStatic("mode", NewString("slow")))
	require.NoError(t, reg.InitStatics("Settings"))
	mode, err := typ.Static("mode")
	require.NoError(t, err)
	assert.Equal(t, "fast", mode.String())

	assert.ErrorIs(t, reg.InitStatics("Nope"), ErrUnknownType)
}

func TestDefineUsesPackageRegistry(t *testing.T) {
	d := &Descriptor{Name: "RegistryTestDefined"}
	d.Method("ping", returns("pong"))
	typ := MustDefine(d)
	again, err := Define(d)
	require.NoError(t, err)
	assert.Same(t, typ, again)
	assert.Equal(t, "pong", callString(t, mustNew(t, typ), "ping"))

	assert.Panics(t, func() { MustDefine(&Descriptor{Name: "RegistryTestDefined"}) })
}

func TestMustCompilePanicsOnError(t *testing.T) {
	reg := newTestRegistry(t)
	d := &Descriptor{Name: "Broken"}
	d.Field("?todo", "not a placeholder")
	assert.Panics(t, func() { reg.MustCompile(d) })
}
