// Package loader creates loaders by declared name. A loader contributes
// primitives to a run; which factory builds it is decided by the "class"
// attribute of its section under Loaders in the active configuration:
//
//	[Loaders.units]
//	class = "lua"
//	script = "units.lua"
package loader

import (
	"errors"
	"maps"
	"slices"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/texerr"
)

// Section is the configuration section holding loader declarations.
const Section = "Loaders"

// ClassAttribute names the factory of a loader declaration.
const ClassAttribute = "class"

// Registrar receives primitives. *dispatcher.Registry satisfies it.
type Registrar interface {
	Register(name string, p primitive.Primitive) error
}

// Loader contributes primitives to a run.
type Loader interface {
	// Name returns the declared name the loader was created for.
	Name() string

	// Load registers the loader's primitives with r.
	Load(r Registrar) error
}

// Factory builds a loader from its configuration section.
type Factory func(cfg *config.Config) (Loader, error)

// Registry maps class names to factories and creates loaders from the
// declarations of the active configuration.
type Registry struct {
	factories map[string]Factory
	config    func() *config.Config
}

// NewRegistry creates a registry reading declarations from the
// configuration returned by cfg. A nil cfg behaves as an empty
// configuration.
func NewRegistry(cfg func() *config.Config) *Registry {
	if cfg == nil {
		cfg = config.Empty
	}
	return &Registry{
		factories: make(map[string]Factory),
		config:    cfg,
	}
}

// RegisterFactory adds the factory for class.
func (r *Registry) RegisterFactory(class string, f Factory) error {
	if _, ok := r.factories[class]; ok {
		return texerr.Configuration(texerr.KeyDuplicateClass, class)
	}
	r.factories[class] = f
	return nil
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Declared returns the loader names declared in the active configuration,
// sorted.
func (r *Registry) Declared() []string {
	sec, err := r.config().Section(Section)
	if err != nil {
		return nil
	}
	return sec.Sections()
}

// Create builds a new loader for the declared name. Every call returns a
// fresh instance.
func (r *Registry) Create(name string) (Loader, error) {
	sec, err := r.declaration(name)
	if err != nil {
		return nil, err
	}
	class, ok := sec.Attribute(ClassAttribute)
	if !ok || class == "" {
		return nil, texerr.Configuration(texerr.KeyMissingAttribute, sec.Path(), ClassAttribute)
	}
	f, ok := r.factories[class]
	if !ok {
		return nil, texerr.Configuration(texerr.KeyClassNotFound, class)
	}

	l, err := f(sec)
	if err != nil {
		return nil, texerr.Configuration(texerr.KeyInstantiation, name).WithCause(err)
	}
	if l == nil {
		return nil, texerr.Configuration(texerr.KeyInstantiation, name)
	}
	return l, nil
}

func (r *Registry) declaration(name string) (*config.Config, error) {
	loaders, err := r.config().Section(Section)
	if errors.Is(err, config.ErrSectionNotFound) {
		return nil, texerr.Configuration(texerr.KeyUnknownLoader, name)
	}
	if err != nil {
		return nil, texerr.Configuration(texerr.KeyUnknownLoader, name).WithCause(err)
	}
	sec, err := loaders.Section(name)
	if err != nil {
		return nil, texerr.Configuration(texerr.KeyUnknownLoader, name).WithCause(err)
	}
	return sec, nil
}

// LoadAll creates every declared loader in name order and loads it into r.
// It stops at the first failure.
func (r *Registry) LoadAll(reg Registrar) ([]Loader, error) {
	var out []Loader
	for _, name := range r.Declared() {
		l, err := r.Create(name)
		if err != nil {
			return out, err
		}
		if err := l.Load(reg); err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, nil
}
