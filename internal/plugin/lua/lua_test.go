package lua

import (
	"errors"
	"reflect"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/loader"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

type registrar map[string]primitive.Primitive

func (r registrar) Register(name string, p primitive.Primitive) error {
	if _, ok := r[name]; ok {
		return errors.New("duplicate " + name)
	}
	r[name] = p
	return nil
}

type lines []string

func (l *lines) Print(s string) {
	*l = append(*l, s)
}

func load(t *testing.T, source string, attrs map[string]any) registrar {
	t.Helper()
	values := map[string]any{"class": Class, "source": source}
	for k, v := range attrs {
		values[k] = v
	}
	l, err := NewLoader(config.New("test", values))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	t.Cleanup(func() { _ = l.(*Loader).Close() })

	r := registrar{}
	if err := l.Load(r); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

func run(t *testing.T, p primitive.Primitive, ctx *state.Context, input string) (*token.Scanner, error) {
	t.Helper()
	src := token.NewScanner("test", input)
	return src, p.Execute(&primitive.Flags{}, ctx, src, primitive.Discard)
}

func TestState_Sandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`ok = dofile == nil and loadfile == nil and load == nil and io == nil and os == nil`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if s.GetGlobal("ok") != lua.LTrue {
		t.Error("unsafe globals are reachable")
	}

	if err := s.DoString(`local m = require("string"); ok = m.upper("a") == "A"`); err != nil {
		t.Fatalf("require(string): %v", err)
	}
	if err := s.DoString(`require("os")`); err == nil {
		t.Error("require(os) succeeded")
	}
	if s.Sandbox().Allowed("os") || !s.Sandbox().Allowed("math") {
		t.Error("Allowed() disagrees with require")
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(20 * time.Millisecond))
	defer s.Close()

	if err := s.DoString(`while true do end`); err == nil {
		t.Fatal("endless loop was not interrupted")
	}
	if err := s.DoString(`x = 1`); err != nil {
		t.Errorf("state unusable after timeout: %v", err)
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false")
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() = %v, want ErrStateClosed", err)
	}
}

func TestBridge_Values(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	in := map[string]any{
		"name":  "units",
		"n":     int64(3),
		"ratio": 0.5,
		"on":    true,
		"list":  []any{"a", "b"},
	}
	got := b.ToGoValue(b.ToLuaValue(in))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %#v, want %#v", got, in)
	}
	if b.ToLuaValue(nil) != lua.LNil {
		t.Error("nil did not map to LNil")
	}
}

func TestPrimitive_Assign(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("double", function()
			local n = tex.scan_int()
			tex.set_count("result", 2 * n, tex.global())
		end)
	`, nil)

	ctx := state.New()
	if _, err := run(t, r["double"], ctx, "21 "); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ctx.Count().Get("result"); got != 42 {
		t.Errorf("result = %d, want 42", got)
	}

	ctx.BeginGroup()
	flags := &primitive.Flags{}
	flags.Set(primitive.Global)
	src := token.NewScanner("test", "5 ")
	if err := r["double"].Execute(flags, ctx, src, primitive.Discard); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if flags.IsDirty() {
		t.Errorf("flags = %s after global assignment", flags)
	}
	if err := ctx.EndGroup(); err != nil {
		t.Fatalf("EndGroup: %v", err)
	}
	if got := ctx.Count().Get("result"); got != 10 {
		t.Errorf("result after group = %d, want 10", got)
	}
}

func TestPrimitive_Registers(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("copy", function()
			tex.set_dimen("hsize", tex.dimen(3))
			tex.set_toks("everypar", "\\relax x")
			tex.set_count(7, tex.count("n") + 1)
		end)
	`, nil)

	ctx := state.New()
	_ = ctx.Dimen().Set("3", 5*state.Point, false)
	_ = ctx.Count().Set("n", 9, false)
	if _, err := run(t, r["copy"], ctx, ""); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := ctx.Dimen().Get("hsize"); got != 5*state.Point {
		t.Errorf("hsize = %s", got)
	}
	want := token.Tokens{token.CS("relax"), token.Char('x')}
	if got := ctx.Toks().Get("everypar"); !got.Equal(want) {
		t.Errorf("everypar = %v, want %v", got, want)
	}
	if got := ctx.Count().Get("7"); got != 10 {
		t.Errorf("count 7 = %d, want 10", got)
	}
}

func TestPrimitive_ResultIsRead(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("greet", function()
			return tex.config.greeting
		end)
	`, map[string]any{"greeting": `\relax hi`})

	src, err := run(t, r["greet"], state.New(), "!")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []token.Token{token.CS("relax"), token.Char('h'), token.Char('i'), token.Char('!')}
	for _, w := range want {
		got, err := src.Next()
		if err != nil || got != w {
			t.Fatalf("Next() = %v, %v; want %v", got, err, w)
		}
	}
}

func TestPrimitive_ResultList(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("parts", function()
			return {"\\relax", "x", 7, {}}
		end)
		tex.primitive("named", function()
			return {text = "x"}
		end)
		tex.primitive("flag", function()
			return true
		end)
	`, nil)

	src, err := run(t, r["parts"], state.New(), "")
	if err != nil {
		t.Fatalf("parts: %v", err)
	}
	want := []token.Token{token.CS("relax"), token.Char('x'), token.Char('7')}
	for _, w := range want {
		got, err := src.Next()
		if err != nil || got != w {
			t.Fatalf("Next() = %v, %v; want %v", got, err, w)
		}
	}

	_, err = run(t, r["named"], state.New(), "")
	var te *texerr.Error
	if !errors.As(err, &te) || te.Key != texerr.KeyScriptError || !errors.Is(err, ErrResultTable) {
		t.Errorf("named = %v, want %s caused by ErrResultTable", err, texerr.KeyScriptError)
	}

	src, err = run(t, r["flag"], state.New(), "")
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	if tok, err := src.Next(); err == nil {
		t.Errorf("flag pushed %v", tok)
	}
}

func TestPrimitive_RegisterRange(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("bigcount", function() tex.set_count(1, 1e12) end)
		tex.primitive("smallcount", function() tex.set_count(1, -1e12) end)
		tex.primitive("bigdimen", function() tex.set_dimen(2, 1e15) end)
		tex.primitive("limits", function()
			tex.set_count(3, 2147483647)
			tex.set_dimen(4, -1073741823)
		end)
	`, nil)

	tests := []struct {
		name string
		key  string
	}{
		{"bigcount", texerr.KeyArithOverflow},
		{"smallcount", texerr.KeyArithOverflow},
		{"bigdimen", texerr.KeyDimenTooLarge},
	}
	ctx := state.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, r[tt.name], ctx, "")
			var te *texerr.Error
			if !errors.As(err, &te) || te.Key != tt.key {
				t.Errorf("error = %v, want %s", err, tt.key)
			}
		})
	}
	if ctx.Count().Get("1") != 0 || ctx.Dimen().Get("2") != 0 {
		t.Errorf("out of range values stored: count1=%d dimen2=%d", ctx.Count().Get("1"), ctx.Dimen().Get("2"))
	}

	if _, err := run(t, r["limits"], ctx, ""); err != nil {
		t.Fatalf("limits: %v", err)
	}
	if ctx.Count().Get("3") != state.MaxCount || ctx.Dimen().Get("4") != -state.MaxDimen {
		t.Errorf("count3=%d dimen4=%d", ctx.Count().Get("3"), ctx.Dimen().Get("4"))
	}
}

func TestPrimitive_Print(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("say", function()
			print("level", tex.group_level(), tex.interaction())
		end)
	`, nil)

	ctx := state.New()
	ctx.BeginGroup()
	var out lines
	src := token.NewScanner("test", "")
	if err := r["say"].Execute(&primitive.Flags{}, ctx, src, &out); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out) != 1 || out[0] != "level\t1\terrorstopmode" {
		t.Errorf("output = %q", out)
	}
}

func TestPrimitive_Groups(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("open", function() tex.begin_group() end)
		tex.primitive("close", function() tex.end_group() end)
	`, nil)

	ctx := state.New()
	if _, err := run(t, r["open"], ctx, ""); err != nil {
		t.Fatalf("open: %v", err)
	}
	if ctx.GroupType() != state.SemiSimpleGroup {
		t.Errorf("GroupType() = %v", ctx.GroupType())
	}
	if _, err := run(t, r["close"], ctx, ""); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := run(t, r["close"], ctx, "")
	if !errors.Is(err, texerr.ErrUsage) {
		t.Errorf("close at level 0 = %v, want usage error", err)
	}
}

func TestPrimitive_Errors(t *testing.T) {
	r := load(t, `
		local tex = require("texcore")
		tex.primitive("boom", function() error("boom") end)
		tex.primitive("num", function() tex.scan_int() end)
	`, nil)

	_, err := run(t, r["boom"], state.New(), "")
	var te *texerr.Error
	if !errors.As(err, &te) || te.Key != texerr.KeyScriptError {
		t.Errorf("boom = %v, want %s", err, texerr.KeyScriptError)
	}

	_, err = run(t, r["num"], state.New(), "x")
	if !errors.As(err, &te) || te.Key != texerr.KeyMissingNumber {
		t.Errorf("num = %v, want %s", err, texerr.KeyMissingNumber)
	}
}

func TestLoader_Failures(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		key    string
	}{
		{"no code", map[string]any{"class": Class}, texerr.KeyMissingAttribute},
		{"api outside primitive", map[string]any{"source": `require("texcore").count("x")`}, texerr.KeyScriptError},
		{"declared twice", map[string]any{"source": `
			local tex = require("texcore")
			tex.primitive("a", function() end)
			tex.primitive("a", function() end)
		`}, texerr.KeyScriptError},
		{"syntax", map[string]any{"source": `local =`}, texerr.KeyScriptError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLoader(config.New("test", tt.values))
			if err == nil {
				defer l.(*Loader).Close()
				err = l.Load(registrar{})
			}
			var te *texerr.Error
			if !errors.As(err, &te) || te.Key != tt.key {
				t.Errorf("error = %v, want %s", err, tt.key)
			}
		})
	}
}

func TestLoader_ThroughRegistry(t *testing.T) {
	cfg := config.New("root", map[string]any{
		loader.Section: map[string]any{
			"units": map[string]any{
				"class":  Class,
				"source": `require("texcore").primitive("unit", function() end)`,
			},
		},
	})
	reg := loader.NewRegistry(func() *config.Config { return cfg })
	if err := reg.RegisterFactory(Class, NewLoader); err != nil {
		t.Fatalf("RegisterFactory: %v", err)
	}

	r := registrar{}
	loaded, err := reg.LoadAll(r)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	defer loaded[0].(*Loader).Close()

	if len(loaded) != 1 || loaded[0].Name() != "units" {
		t.Errorf("loaded = %v", loaded)
	}
	if _, ok := r["unit"]; !ok {
		t.Error("primitive unit was not registered")
	}
	if got := loaded[0].(*Loader).Primitives(); len(got) != 1 || got[0].Name() != "unit" {
		t.Errorf("Primitives() = %v", got)
	}
}
