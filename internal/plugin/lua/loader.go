package lua

import (
	"time"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/loader"
	"github.com/dshills/texcore/internal/texerr"
)

// Class is the loader class served by NewLoader.
const Class = "lua"

// Attributes of a Lua loader declaration.
const (
	ScriptAttribute  = "script"
	SourceAttribute  = "source"
	TimeoutAttribute = "timeout_ms"
)

// Loader runs a script that declares primitives and registers them.
type Loader struct {
	name   string
	script string
	source string

	state  *State
	module *Module
	loaded bool
}

// NewLoader is the loader.Factory for Class. The declaration names a script
// file with "script" or carries the code inline in "source"; "timeout_ms"
// bounds every call into the script.
func NewLoader(cfg *config.Config) (loader.Loader, error) {
	script, hasScript := cfg.Attribute(ScriptAttribute)
	source, hasSource := cfg.Attribute(SourceAttribute)
	if !hasScript && !hasSource {
		return nil, texerr.Configuration(texerr.KeyMissingAttribute, cfg.Path(), ScriptAttribute)
	}
	ms, err := cfg.IntOr(TimeoutAttribute, DefaultExecutionTimeout.Milliseconds())
	if err != nil {
		return nil, err
	}

	s := NewState(WithExecutionTimeout(time.Duration(ms) * time.Millisecond))
	m := NewModule(s, cfg)
	m.Install()
	return &Loader{
		name:   cfg.Name(),
		script: script,
		source: source,
		state:  s,
		module: m,
	}, nil
}

// Name implements loader.Loader.
func (l *Loader) Name() string {
	return l.name
}

// Load runs the script once and registers the primitives it declared.
func (l *Loader) Load(r loader.Registrar) error {
	if !l.loaded {
		var err error
		if l.script != "" {
			err = l.state.DoFile(l.script)
		} else {
			err = l.state.DoString(l.source)
		}
		if err != nil {
			return texerr.Interpreter(texerr.KeyScriptError, l.name).WithCause(err)
		}
		l.loaded = true
	}

	for _, p := range l.module.Primitives() {
		if err := r.Register(p.Name(), p); err != nil {
			return err
		}
	}
	return nil
}

// Primitives returns the primitives the script declared.
func (l *Loader) Primitives() []*Primitive {
	return l.module.Primitives()
}

// Close releases the Lua state. Primitives of the loader fail afterwards.
func (l *Loader) Close() error {
	return l.state.Close()
}
