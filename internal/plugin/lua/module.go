package lua

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/dispatcher/primitives"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "texcore"

// invocation is the interpreter state of the primitive currently running.
type invocation struct {
	flags *primitive.Flags
	ctx   *state.Context
	src   token.Source
	out   primitive.Output

	// err is the interpreter error that aborted the script, if any.
	err error
}

// Module is the texcore API exposed to scripts. Scripts declare primitives
// with texcore.primitive while they load; the other functions act on the
// interpreter and may only be called while such a primitive runs.
type Module struct {
	state  *State
	bridge *Bridge
	config *config.Config

	prims []*Primitive
	names map[string]bool
	inv   *invocation
}

// NewModule creates the module for s. cfg is exposed to scripts as
// texcore.config.
func NewModule(s *State, cfg *config.Config) *Module {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &Module{
		state:  s,
		bridge: NewBridge(s.L),
		config: cfg,
		names:  make(map[string]bool),
	}
}

// Install makes the module available to require and as the global texcore.
// The global print writes to the output of the running primitive.
func (m *Module) Install() {
	L := m.state.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"primitive":   m.primitive,
		"count":       m.count,
		"set_count":   m.setCount,
		"dimen":       m.dimen,
		"set_dimen":   m.setDimen,
		"toks":        m.toks,
		"set_toks":    m.setToks,
		"print":       m.print,
		"scan_tokens": m.scanTokens,
		"scan_int":    m.scanInt,
		"scan_dimen":  m.scanDimen,
		"group_level": m.groupLevel,
		"begin_group": m.beginGroup,
		"end_group":   m.endGroup,
		"interaction": m.interaction,
		"global":      m.global,
	})
	L.SetField(mod, "config", m.bridge.ToLuaValue(m.config.Map()))

	m.state.Sandbox().Provide(ModuleName, mod)
	L.SetGlobal(ModuleName, mod)
	L.SetGlobal("print", L.NewFunction(m.print))
}

// Primitives returns the primitives declared so far, in declaration order.
func (m *Module) Primitives() []*Primitive {
	return m.prims
}

// current returns the running invocation or raises a Lua error.
func (m *Module) current(L *lua.LState) *invocation {
	if m.inv == nil {
		L.RaiseError("%s", ErrNoInvocation.Error())
	}
	return m.inv
}

// fail records err for the running primitive and aborts the script.
func (m *Module) fail(L *lua.LState, err error) {
	if m.inv != nil && m.inv.err == nil {
		m.inv.err = err
	}
	L.RaiseError("%s", err.Error())
}

func (m *Module) primitive(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "primitive name is empty")
	}
	if m.names[name] {
		L.RaiseError("primitive %s declared twice", name)
	}
	m.names[name] = true
	m.prims = append(m.prims, &Primitive{name: name, fn: fn, module: m})
	return 0
}

// registerKey reads a register key: a name, or a register number that is
// stored under its decimal form.
func registerKey(L *lua.LState, n int) string {
	if v, ok := L.Get(n).(lua.LNumber); ok {
		return strconv.FormatInt(int64(v), 10)
	}
	return L.CheckString(n)
}

func (m *Module) count(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LNumber(inv.ctx.Count().Get(registerKey(L, 1))))
	return 1
}

func (m *Module) setCount(L *lua.LState) int {
	inv := m.current(L)
	key := registerKey(L, 1)
	v := m.checkNumber(L, 2, state.MaxCount, texerr.KeyArithOverflow)
	if err := inv.ctx.Count().Set(key, v, L.OptBool(3, false)); err != nil {
		m.fail(L, err)
	}
	return 0
}

// checkNumber reads argument n as an integer whose magnitude is at most
// limit. Fractions are truncated.
func (m *Module) checkNumber(L *lua.LState, n int, limit int64, key string) int64 {
	f := float64(L.CheckNumber(n))
	if math.IsNaN(f) || math.Abs(f) > float64(limit) {
		m.fail(L, texerr.Interpreter(key))
	}
	return int64(f)
}

func (m *Module) dimen(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LNumber(inv.ctx.Dimen().Get(registerKey(L, 1))))
	return 1
}

func (m *Module) setDimen(L *lua.LState) int {
	inv := m.current(L)
	key := registerKey(L, 1)
	v := state.Dimen(m.checkNumber(L, 2, int64(state.MaxDimen), texerr.KeyDimenTooLarge))
	if err := inv.ctx.Dimen().Set(key, v, L.OptBool(3, false)); err != nil {
		m.fail(L, err)
	}
	return 0
}

func (m *Module) toks(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LString(inv.ctx.Toks().Get(registerKey(L, 1)).String()))
	return 1
}

func (m *Module) setToks(L *lua.LState) int {
	inv := m.current(L)
	key := registerKey(L, 1)
	toks, err := Tokenize(L.CheckString(2))
	if err != nil {
		m.fail(L, err)
	}
	if err := inv.ctx.Toks().Set(key, toks, L.OptBool(3, false)); err != nil {
		m.fail(L, err)
	}
	return 0
}

func (m *Module) print(L *lua.LState) int {
	if m.inv == nil {
		return 0
	}
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	m.inv.out.Print(strings.Join(parts, "\t"))
	return 0
}

func (m *Module) scanTokens(L *lua.LState) int {
	inv := m.current(L)
	toks, err := inv.src.ScanTokens()
	if err != nil {
		m.fail(L, err)
	}
	L.Push(lua.LString(toks.String()))
	return 1
}

func (m *Module) scanInt(L *lua.LState) int {
	inv := m.current(L)
	v, err := primitives.ScanCount(inv.ctx, inv.src)
	if err != nil {
		m.fail(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (m *Module) scanDimen(L *lua.LState) int {
	inv := m.current(L)
	v, err := primitives.ScanDimen(inv.ctx, inv.src)
	if err != nil {
		m.fail(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (m *Module) groupLevel(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LNumber(inv.ctx.GroupLevel()))
	return 1
}

func (m *Module) beginGroup(L *lua.LState) int {
	inv := m.current(L)
	inv.ctx.BeginGroupOf(state.SemiSimpleGroup)
	return 0
}

func (m *Module) endGroup(L *lua.LState) int {
	inv := m.current(L)
	if err := primitive.CloseGroup(inv.ctx, inv.src, state.SemiSimpleGroup); err != nil {
		m.fail(L, err)
	}
	return 0
}

func (m *Module) interaction(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LString(inv.ctx.Interaction().String()))
	return 1
}

// global consumes the \global prefix and reports whether it was given.
func (m *Module) global(L *lua.LState) int {
	inv := m.current(L)
	L.Push(lua.LBool(inv.flags.TakeGlobal()))
	return 1
}

// Tokenize splits s into tokens the way an input file is read.
func Tokenize(s string) (token.Tokens, error) {
	sc := token.NewScanner("lua", s)
	var out token.Tokens
	for {
		tok, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
}

// Primitive is a primitive implemented by a Lua function. What the function
// returns is read next, see resultTokens.
type Primitive struct {
	name   string
	fn     *lua.LFunction
	module *Module
}

// Name implements primitive.Primitive.
func (p *Primitive) Name() string {
	return p.name
}

// Execute implements primitive.Primitive.
func (p *Primitive) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, out primitive.Output) error {
	m := p.module
	inv := &invocation{flags: flags, ctx: ctx, src: src, out: out}
	prev := m.inv
	m.inv = inv
	defer func() { m.inv = prev }()

	results, err := m.state.CallFunction(p.fn)
	if inv.err != nil {
		return inv.err
	}
	if err != nil {
		return texerr.Interpreter(texerr.KeyScriptError, `\`+p.name).WithCause(err)
	}

	if len(results) > 0 {
		toks, err := resultTokens(m.bridge.ToGoValue(results[0]))
		if errors.Is(err, ErrResultTable) {
			return texerr.Interpreter(texerr.KeyScriptError, `\`+p.name).WithCause(err)
		}
		if err != nil {
			return err
		}
		src.Push(toks...)
	}
	return nil
}

// resultTokens converts the value a primitive returned to the input read
// next. Strings and numbers are tokenized; a list reads its items in order.
func resultTokens(v any) (token.Tokens, error) {
	switch val := v.(type) {
	case string:
		return Tokenize(val)
	case int64:
		return Tokenize(strconv.FormatInt(val, 10))
	case float64:
		return Tokenize(strconv.FormatFloat(val, 'f', -1, 64))
	case []any:
		var out token.Tokens
		for _, item := range val {
			toks, err := resultTokens(item)
			if err != nil {
				return nil, err
			}
			out = append(out, toks...)
		}
		return out, nil
	case map[string]any:
		if len(val) == 0 {
			return nil, nil
		}
		return nil, ErrResultTable
	default:
		return nil, nil
	}
}
