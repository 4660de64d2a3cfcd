package extension

import (
	"errors"
	"testing"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/texerr"
)

type hyphenator struct {
	lang string
}

func TestRegistry_GetIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	_ = r.Define("hyphenation", func(*config.Config) (any, error) {
		calls++
		return &hyphenator{lang: "en"}, nil
	})

	a, err := r.Get("hyphenation")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := r.Get("hyphenation")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a != b {
		t.Error("Get returned different instances for the same id")
	}
	if calls != 1 {
		t.Errorf("constructor ran %d times, want 1", calls)
	}
	if !r.Loaded("hyphenation") {
		t.Error("Loaded() = false after Get")
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Get("nope")

	var te *texerr.Error
	if !errors.As(err, &te) || te.Kind != texerr.KindConfiguration || te.Key != texerr.KeyUnknownExtension {
		t.Errorf("Get() error = %v, want configuration %s", err, texerr.KeyUnknownExtension)
	}
}

func TestRegistry_FailureNotCached(t *testing.T) {
	cause := errors.New("dictionary missing")
	fail := true
	r := NewRegistry(nil)
	_ = r.Define("hyphenation", func(*config.Config) (any, error) {
		if fail {
			return nil, cause
		}
		return &hyphenator{}, nil
	})

	_, err := r.Get("hyphenation")
	if !errors.Is(err, texerr.ErrConfiguration) || !errors.Is(err, cause) {
		t.Fatalf("Get() error = %v, want configuration error wrapping cause", err)
	}
	if r.Loaded("hyphenation") {
		t.Fatal("failed construction was cached")
	}

	fail = false
	if _, err := r.Get("hyphenation"); err != nil {
		t.Errorf("retry Get() = %v, want success", err)
	}
}

func TestRegistry_NilInstance(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Define("empty", func(*config.Config) (any, error) { return nil, nil })
	if _, err := r.Get("empty"); !errors.Is(err, texerr.ErrConfiguration) {
		t.Errorf("Get() error = %v, want configuration error", err)
	}
}

func TestRegistry_Define(t *testing.T) {
	r := NewRegistry(nil)
	ctor := func(*config.Config) (any, error) { return 1, nil }
	if err := r.Define("a", ctor); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := r.Define("a", ctor); !errors.Is(err, texerr.ErrConfiguration) {
		t.Errorf("duplicate Define() = %v, want configuration error", err)
	}
	_ = r.Define("b", ctor)
	if ids := r.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestRegistry_SectionFromConfig(t *testing.T) {
	cfg := config.New("root", map[string]any{
		"Extensions": map[string]any{
			"hyphenation": map[string]any{"lang": "de"},
		},
	})
	r := NewRegistry(func() *config.Config { return cfg })
	_ = r.Define("hyphenation", func(c *config.Config) (any, error) {
		lang, _ := c.Attribute("lang")
		return &hyphenator{lang: lang}, nil
	})

	h, err := Lookup[*hyphenator](r, "hyphenation")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if h.lang != "de" {
		t.Errorf("lang = %q, want de", h.lang)
	}
}

func TestLookup_WrongType(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Define("n", func(*config.Config) (any, error) { return 42, nil })

	_, err := Lookup[string](r, "n")
	var te *texerr.Error
	if !errors.As(err, &te) || te.Key != texerr.KeyInvalidClass {
		t.Errorf("Lookup() error = %v, want %s", err, texerr.KeyInvalidClass)
	}
}

func TestMagnification(t *testing.T) {
	cfg := config.New("magnification", map[string]any{"max": int64(2000)})
	v, err := NewMagnification(cfg)
	if err != nil {
		t.Fatalf("NewMagnification: %v", err)
	}
	m := v.(*Magnification)

	if m.Value() != 1000 {
		t.Errorf("default = %d, want 1000", m.Value())
	}

	tests := []struct {
		name string
		v    int64
		key  string
	}{
		{"zero", 0, texerr.KeyIllegalMag},
		{"too big", 2001, texerr.KeyIllegalMag},
		{"ok", 1200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Set(tt.v)
			if tt.key == "" {
				if err != nil {
					t.Errorf("Set(%d) = %v", tt.v, err)
				}
				return
			}
			var te *texerr.Error
			if !errors.As(err, &te) || te.Key != tt.key {
				t.Errorf("Set(%d) = %v, want %s", tt.v, err, tt.key)
			}
		})
	}

	m.Lock()
	if err := m.Set(1200); err != nil {
		t.Errorf("Set(same) after Lock = %v", err)
	}
	var te *texerr.Error
	if err := m.Set(1000); !errors.As(err, &te) || te.Key != texerr.KeyIncompatMag {
		t.Errorf("Set(other) after Lock = %v, want %s", err, texerr.KeyIncompatMag)
	}
}

func TestMagnification_BadConfig(t *testing.T) {
	cfg := config.New("magnification", map[string]any{"max": "lots"})
	if _, err := NewMagnification(cfg); !errors.Is(err, config.ErrTypeMismatch) {
		t.Errorf("NewMagnification() = %v, want type mismatch", err)
	}
}
