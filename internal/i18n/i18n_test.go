package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/dshills/texcore/internal/texerr"
)

func TestLoadEmbedded(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}

	locales := b.Locales()
	if len(locales) < 2 {
		t.Fatalf("expected at least two locales, got %v", locales)
	}
	if _, ok := b.Lookup(BaseLocale, texerr.KeyTooManyRightBraces); !ok {
		t.Errorf("base locale missing %s", texerr.KeyTooManyRightBraces)
	}
}

func TestLoadFromFS_MissingBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de-DE.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: b\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Error("expected error when base locale is absent")
	}
}

func TestLoadFromFS_Empty(t *testing.T) {
	if _, err := LoadFromFS(fstest.MapFS{}); err == nil {
		t.Error("expected error for empty filesystem")
	}
}

func TestLocalizer_Format(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}

	tests := []struct {
		name   string
		locale string
		key    string
		args   []any
		want   string
	}{
		{"english", "en-US", texerr.KeyTooManyRightBraces, nil, "Too many }'s"},
		{"german", "de-DE", texerr.KeyTooManyRightBraces, nil, "Zu viele }"},
		{"args", "en-US", texerr.KeyUndefinedToken, []any{`\foo`}, `Undefined control sequence \foo`},
		{"default locale", "", texerr.KeyArithOverflow, nil, "Arithmetic overflow"},
		{"unknown key", "en-US", "No.Such.Key", []any{1}, "No.Such.Key: 1"},
		{"unknown key no args", "en-US", "No.Such.Key", nil, "No.Such.Key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLocalizer(b, tt.locale)
			if err != nil {
				t.Fatalf("NewLocalizer: %v", err)
			}
			if got := l.Format(tt.key, tt.args...); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizer_RendersTexerr(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	l, err := NewLocalizer(b, "en-US")
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}

	e := texerr.Interpreter(texerr.KeyInvalidPrefix, `\relax`)
	if got := e.Localize(l); got != `You can't use a prefix with \relax` {
		t.Errorf("Localize() = %q", got)
	}
}

func TestNewLocalizer_BadTag(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if _, err := NewLocalizer(b, "not a tag!"); err == nil {
		t.Error("expected error for malformed locale")
	}
}
