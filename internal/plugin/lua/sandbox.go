package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to computation and the texcore module.
type Sandbox struct {
	L *lua.LState

	// modules are the values require may return.
	modules map[string]lua.LValue
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:       L,
		modules: make(map[string]lua.LValue),
	}
}

// Install removes the functions that load code from outside the state and
// replaces require with a whitelist lookup.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	for _, name := range []string{"string", "table", "math"} {
		s.modules[name] = s.L.GetGlobal(name)
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		mod, ok := s.modules[name]
		if !ok {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(mod)
		return 1
	}))
}

// Provide makes value available to require under name.
func (s *Sandbox) Provide(name string, value lua.LValue) {
	s.modules[name] = value
}

// Allowed reports whether require accepts name.
func (s *Sandbox) Allowed(name string) bool {
	_, ok := s.modules[name]
	return ok
}
