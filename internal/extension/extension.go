// Package extension provides lazily constructed, per-run extension points.
//
// Optional subsystems unknown to the interpreter core register a
// constructor under a capability id. The first Get for an id constructs the
// extension from the configuration section Extensions.<id> and caches it for
// the registry's lifetime; later calls return the same instance. A failed
// construction is not cached, so a later Get may succeed once the
// configuration has been fixed and reloaded.
package extension

import (
	"fmt"
	"sort"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/texerr"
)

// SectionName is the configuration section holding per-extension settings.
const SectionName = "Extensions"

// Constructor builds an extension from its configuration section. The
// section is empty when the configuration declares nothing for the id.
type Constructor func(cfg *config.Config) (any, error)

// ConfigFunc returns the active configuration.
type ConfigFunc func() *config.Config

// Registry maps capability ids to constructors and constructed instances.
// It belongs to one interpreter run and is not safe for concurrent use.
type Registry struct {
	config ConfigFunc
	ctors  map[string]Constructor
	cache  map[string]any
}

// NewRegistry creates a registry reading configuration through cfg. A nil
// cfg yields empty sections.
func NewRegistry(cfg ConfigFunc) *Registry {
	if cfg == nil {
		cfg = config.Empty
	}
	return &Registry{
		config: cfg,
		ctors:  make(map[string]Constructor),
		cache:  make(map[string]any),
	}
}

// Define registers the constructor for id.
func (r *Registry) Define(id string, ctor Constructor) error {
	if _, dup := r.ctors[id]; dup {
		return texerr.Configuration(texerr.KeyDuplicateClass, id)
	}
	r.ctors[id] = ctor
	return nil
}

// Get returns the extension for id, constructing it on first use.
func (r *Registry) Get(id string) (any, error) {
	if ext, ok := r.cache[id]; ok {
		return ext, nil
	}
	ctor, ok := r.ctors[id]
	if !ok {
		return nil, texerr.Configuration(texerr.KeyUnknownExtension, id)
	}

	ext, err := ctor(r.section(id))
	if err != nil {
		return nil, texerr.Configuration(texerr.KeyInstantiation, id).WithCause(err)
	}
	if ext == nil {
		return nil, texerr.Configuration(texerr.KeyInstantiation, id)
	}
	r.cache[id] = ext
	return ext, nil
}

func (r *Registry) section(id string) *config.Config {
	root := r.config()
	if root == nil {
		return config.New(id, nil)
	}
	exts, err := root.Section(SectionName)
	if err != nil {
		return config.New(id, nil)
	}
	sec, err := exts.Section(id)
	if err != nil {
		return config.New(id, nil)
	}
	return sec
}

// Loaded reports whether id has been constructed.
func (r *Registry) Loaded(id string) bool {
	_, ok := r.cache[id]
	return ok
}

// IDs returns the defined capability ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.ctors))
	for id := range r.ctors {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the extension for id as a T.
func Lookup[T any](r *Registry, id string) (T, error) {
	var zero T
	ext, err := r.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := ext.(T)
	if !ok {
		return zero, texerr.Configuration(texerr.KeyInvalidClass, id, fmt.Sprintf("%T", zero))
	}
	return t, nil
}
