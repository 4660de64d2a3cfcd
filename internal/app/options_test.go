package app

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}

	def := DefaultOptions()
	if opts.LogLevel != def.LogLevel || opts.MaxErrors != def.MaxErrors || opts.Locale != def.Locale {
		t.Errorf("LoadOptions() = %+v, expected %+v", opts, def)
	}
	if opts.ConfigPath != "" || opts.Watch || opts.Metrics {
		t.Errorf("unexpected options set: %+v", opts)
	}
}

func TestLoadOptions_Environment(t *testing.T) {
	t.Setenv("TEXCORE_CONFIG", "/etc/texcore.toml")
	t.Setenv("TEXCORE_LOG_LEVEL", "debug")
	t.Setenv("TEXCORE_MAX_ERRORS", "7")
	t.Setenv("TEXCORE_LOCALE", "de-DE")
	t.Setenv("TEXCORE_METRICS", "true")
	t.Setenv("TEXCORE_DENY", "show,showthe")

	opts, err := LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.ConfigPath != "/etc/texcore.toml" {
		t.Errorf("ConfigPath = '%s'", opts.ConfigPath)
	}
	if opts.LogLevel != "debug" || opts.MaxErrors != 7 || opts.Locale != "de-DE" || !opts.Metrics {
		t.Errorf("LoadOptions() = %+v", opts)
	}
	if !slices.Equal(opts.Deny, []string{"show", "showthe"}) {
		t.Errorf("Deny = %v", opts.Deny)
	}
}

func TestLoadOptions_Error(t *testing.T) {
	t.Setenv("TEXCORE_MAX_ERRORS", "many")

	_, err := LoadOptions()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("expected parse env prefix, got %v", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Options)
		valid bool
	}{
		{"defaults", func(*Options) {}, true},
		{"no error budget", func(o *Options) { o.MaxErrors = 0 }, false},
		{"watch without file", func(o *Options) { o.Watch = true }, false},
		{"watch with file", func(o *Options) { o.Watch, o.ConfigPath = true, "texcore.toml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.apply(&opts)
			err := opts.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate() = %v, expected ErrInvalidOptions", err)
			}
		})
	}
}
