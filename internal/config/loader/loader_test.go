package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want string
		err  bool
	}{
		{"a.toml", "toml", false},
		{"dir/b.YAML", "yaml", false},
		{"c.yml", "yaml", false},
		{"d.json", "", true},
	}

	for _, tt := range tests {
		f, err := FormatFor(tt.path)
		if tt.err {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("FormatFor(%q) error = %v, want ErrUnknownFormat", tt.path, err)
			}
			continue
		}
		if err != nil || f.Name != tt.want {
			t.Errorf("FormatFor(%q) = %q, %v; want %q", tt.path, f.Name, err, tt.want)
		}
	}
}

func TestLoadFile_TOML(t *testing.T) {
	fsys := fstest.MapFS{
		"texcore.toml": {Data: []byte(`
[Loaders.lua]
class = "lua"
script = "m.lua"

[Registers]
parindent = 3
`)},
	}

	m, err := LoadFile(fsys, "texcore.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	loaders, ok := m["Loaders"].(map[string]any)
	if !ok {
		t.Fatalf("Loaders = %T", m["Loaders"])
	}
	lua, ok := loaders["lua"].(map[string]any)
	if !ok || lua["class"] != "lua" {
		t.Errorf("Loaders.lua = %v", loaders["lua"])
	}
	regs := m["Registers"].(map[string]any)
	if regs["parindent"] != int64(3) {
		t.Errorf("parindent = %#v", regs["parindent"])
	}
}

func TestLoadFile_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"texcore.yaml": {Data: []byte("Loaders:\n  lua:\n    class: lua\nmaxErrors: 7\n")},
	}

	m, err := LoadFile(fsys, "texcore.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m["maxErrors"] != 7 {
		t.Errorf("maxErrors = %#v", m["maxErrors"])
	}
	loaders := m["Loaders"].(map[string]any)
	if loaders["lua"].(map[string]any)["class"] != "lua" {
		t.Errorf("Loaders = %v", loaders)
	}
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	fsys := fstest.MapFS{"e.yaml": {Data: []byte("")}}
	m, err := LoadFile(fsys, "e.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m == nil || len(m) != 0 {
		t.Errorf("LoadFile() = %v, want empty map", m)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	m, err := LoadFile(fstest.MapFS{}, "none.toml")
	if err != nil || m != nil {
		t.Errorf("LoadFile() = %v, %v; want nil, nil", m, err)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	fsys := fstest.MapFS{"bad.toml": {Data: []byte("[unterminated")}}
	_, err := LoadFile(fsys, "bad.toml")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Format != "toml" || pe.Path != "bad.toml" {
		t.Errorf("ParseError = %+v", pe)
	}
}

func TestLoadFile_Includes(t *testing.T) {
	fsys := fstest.MapFS{
		"conf/main.toml": {Data: []byte(`
"@include" = ["base.yaml"]

[Registers]
a = 10
`)},
		"conf/base.yaml": {Data: []byte("Registers:\n  a: 1\n  b: 2\n")},
	}

	m, err := LoadFile(fsys, "conf/main.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := m["@include"]; ok {
		t.Error("@include key should be removed")
	}
	regs := m["Registers"].(map[string]any)
	if regs["a"] != int64(10) {
		t.Errorf("a = %#v, want including file to win", regs["a"])
	}
	if regs["b"] != 2 {
		t.Errorf("b = %#v, want included value", regs["b"])
	}
}

func TestLoadFile_IncludeCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.toml": {Data: []byte(`"@include" = "b.toml"`)},
		"b.toml": {Data: []byte(`"@include" = "a.toml"`)},
	}
	_, err := LoadFile(fsys, "a.toml")
	if err == nil || !strings.Contains(err.Error(), "include depth exceeded") {
		t.Errorf("error = %v, want depth exceeded", err)
	}
}

func TestFileLoader_LoadFromReader(t *testing.T) {
	l := New(DefaultFS(), YAML)
	m, err := l.LoadFromReader(strings.NewReader("x: 1\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if m["x"] != 1 {
		t.Errorf("x = %#v", m["x"])
	}
	if l.Format().Name != "yaml" {
		t.Errorf("Format() = %q", l.Format().Name)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"a": 1,
		"m": map[string]any{"x": 1, "y": 2},
	}
	src := map[string]any{
		"b": 2,
		"m": map[string]any{"y": 3},
	}

	got := DeepMerge(dst, src)
	m := got["m"].(map[string]any)
	if got["a"] != 1 || got["b"] != 2 || m["x"] != 1 || m["y"] != 3 {
		t.Errorf("DeepMerge() = %v", got)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"m": map[string]any{"x": 1},
		"l": []any{map[string]any{"y": 2}},
	}
	dst := Clone(src)
	dst["m"].(map[string]any)["x"] = 99
	dst["l"].([]any)[0].(map[string]any)["y"] = 99

	if src["m"].(map[string]any)["x"] != 1 {
		t.Error("Clone shares nested maps")
	}
	if src["l"].([]any)[0].(map[string]any)["y"] != 2 {
		t.Error("Clone shares maps inside lists")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
