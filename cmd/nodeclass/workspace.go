package main

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mgomes/nodeclass/class"
	"github.com/mgomes/nodeclass/manifest"
)

// workspace is a set of manifests compiled into one registry.
type workspace struct {
	paths    []string
	manifest *manifest.Manifest
	registry *class.Registry
	order    []string
	// failed maps class names to the reason they did not compile.
	failed map[string]error
}

func (a *app) manifestPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(a.config.Manifest.Paths) > 0 {
		return a.config.Manifest.Paths, nil
	}
	return nil, errors.WithHint(errors.New("no manifest files given"),
		"pass files as arguments or set manifest.paths in nodeclass.toml")
}

// loadWorkspace compiles every class it can. Manifest level problems fail
// the whole load; a class that does not compile is recorded in failed.
func (a *app) loadWorkspace(paths []string) (*workspace, error) {
	m, err := manifest.Load(paths...)
	if err != nil {
		return nil, err
	}
	return a.compileWorkspace(paths, m)
}

func (a *app) compileWorkspace(paths []string, m *manifest.Manifest) (*workspace, error) {
	descriptors, err := manifest.Compile(m)
	if err != nil {
		return nil, err
	}
	ws := &workspace{
		paths:    paths,
		manifest: m,
		registry: class.NewRegistry(class.Config{
			Logger:   a.log,
			MaxDepth: a.config.Registry.MaxDepth,
		}),
		order:  manifest.Order(descriptors),
		failed: make(map[string]error),
	}
	for _, name := range ws.order {
		if _, err := ws.registry.Compile(descriptors[name]); err != nil {
			ws.failed[name] = err
			a.log.Debug("class failed to compile", zap.String("class", name), zap.Error(err))
		}
	}
	return ws, nil
}

// lookup finds a compiled class, or explains why it is missing.
func (ws *workspace) lookup(name string) (*class.Type, error) {
	if t, ok := ws.registry.Lookup(name); ok {
		return t, nil
	}
	if err, ok := ws.failed[name]; ok {
		return nil, err
	}
	return nil, errors.Wrapf(class.ErrUnknownType, "%q", name)
}

func (ws *workspace) parentOf(name string) string {
	for _, c := range ws.manifest.Classes {
		if c.Name == name {
			return c.Extends
		}
	}
	return ""
}
