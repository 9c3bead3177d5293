package class

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Config controls how a Registry compiles descriptors.
type Config struct {
	Logger     *zap.Logger
	Convention Convention
	MaxDepth   int

	// RecursionLimit bounds how many constructions may nest on one
	// goroutine before a type calling its own New from Init is rejected.
	RecursionLimit int
}

// Registry compiles descriptors into types and caches the result per
// descriptor, so a shared parent is built once.
type Registry struct {
	config Config
	log    *zap.Logger
	mu     sync.RWMutex
	types  map[*Descriptor]*Type
	byName map[string]*Type
}

// NewRegistry constructs a Registry with defaults filled in.
func NewRegistry(cfg Config) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Convention == nil {
		cfg.Convention = PrefixConvention{}
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 64
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	return &Registry{
		config: cfg,
		log:    cfg.Logger.Named("class"),
		types:  make(map[*Descriptor]*Type),
		byName: make(map[string]*Type),
	}
}

var defaultRegistry = NewRegistry(Config{})

// Define compiles d with the package-level registry.
func Define(d *Descriptor) (*Type, error) {
	return defaultRegistry.Compile(d)
}

// MustDefine is like Define but panics on error. It is meant for package
// level variable initialisation.
func MustDefine(d *Descriptor) *Type {
	t, err := Define(d)
	if err != nil {
		panic(err)
	}
	return t
}

// Compile builds d and any ancestors not yet compiled, root first. Nothing is
// cached unless the whole chain builds.
func (r *Registry) Compile(d *Descriptor) (*Type, error) {
	if d == nil {
		return nil, &MalformedDescriptorError{Reason: "descriptor is nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.types[d]; ok {
		r.log.Debug("type cache hit", zap.String("type", t.name))
		return t, nil
	}

	chain, err := r.lineage(d)
	if err != nil {
		return nil, err
	}

	staged := make(map[*Descriptor]*Type, len(chain))
	stagedNames := make(map[string]bool, len(chain))
	var parent *Type
	for _, desc := range chain {
		if t, ok := r.types[desc]; ok {
			parent = t
			continue
		}
		t, err := r.build(desc, parent)
		if err != nil {
			return nil, errors.Wrapf(err, "compile %s", typeLabel(d.Name))
		}
		if _, taken := r.byName[t.name]; taken || stagedNames[t.name] {
			return nil, errors.Wrapf(ErrDuplicateType, "compile %s: %s already defined", typeLabel(d.Name), t.name)
		}
		staged[desc] = t
		stagedNames[t.name] = true
		parent = t
	}

	for desc, t := range staged {
		r.types[desc] = t
		r.byName[t.name] = t
		r.log.Debug("type compiled",
			zap.String("type", t.name),
			zap.Int("depth", t.Depth()),
			zap.Strings("obligations", t.set.Abstract),
			zap.Strings("overridden", t.set.Overridden))
	}
	return parent, nil
}

// MustCompile is like Compile but panics on error.
func (r *Registry) MustCompile(d *Descriptor) *Type {
	t, err := r.Compile(d)
	if err != nil {
		panic(err)
	}
	return t
}

func (r *Registry) build(d *Descriptor, parent *Type) (*Type, error) {
	own, err := ResolveOwn(d, r.config.Convention)
	if err != nil {
		return nil, err
	}
	var parentSet *ResolvedSet
	if parent != nil {
		parentSet = parent.set
	}
	set, err := ResolveWithParent(own, parentSet)
	if err != nil {
		return nil, err
	}
	t, err := Build(set, parent, IntentExtend)
	if err != nil {
		return nil, err
	}
	t.recursionLimit = r.config.RecursionLimit
	return t, nil
}

// lineage returns d's ancestor chain, root first.
func (r *Registry) lineage(d *Descriptor) ([]*Descriptor, error) {
	var chain []*Descriptor
	seen := make(map[*Descriptor]bool)
	for cur := d; cur != nil; cur = cur.Extends {
		if seen[cur] {
			return nil, errors.Wrapf(ErrInheritanceCycle, "compile %s: %s extends itself", typeLabel(d.Name), typeLabel(cur.Name))
		}
		seen[cur] = true
		chain = append(chain, cur)
		if len(chain) > r.config.MaxDepth {
			return nil, errors.Wrapf(ErrInheritanceDepth, "compile %s: more than %d levels", typeLabel(d.Name), r.config.MaxDepth)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Lookup finds a compiled type by name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Types lists compiled types sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// InitStatics resets the statics of a compiled type.
func (r *Registry) InitStatics(name string) error {
	t, ok := r.Lookup(name)
	if !ok {
		return errors.Wrapf(ErrUnknownType, "%q", name)
	}
	t.InitStatics()
	r.log.Debug("statics reset", zap.String("type", name))
	return nil
}

// Reset drops every cached type.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[*Descriptor]*Type)
	r.byName = make(map[string]*Type)
}
