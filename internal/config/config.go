package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/texcore/internal/config/loader"
)

// Config is a read-only view of one section of a configuration tree.
type Config struct {
	name   string
	path   string
	values map[string]any
}

// New wraps values as the root section name.
func New(name string, values map[string]any) *Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &Config{name: name, path: name, values: values}
}

// Empty returns a configuration without any section.
func Empty() *Config {
	return New("", nil)
}

// LoadFile loads a TOML or YAML file, selected by extension, with @include
// processing.
func LoadFile(path string) (*Config, error) {
	values, err := loader.LoadFile(loader.DefaultFS(), path)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return New(name, values), nil
}

// Name returns the section name.
func (c *Config) Name() string {
	return c.name
}

// Path returns the dot-separated path of the section from the root.
func (c *Config) Path() string {
	return c.path
}

// Section returns the sub-section name.
func (c *Config) Section(name string) (*Config, error) {
	v, ok := c.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, c.join(name))
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: c.join(name), Expected: "section", Actual: typeName(v)}
	}
	return &Config{name: name, path: c.join(name), values: m}, nil
}

// Sections returns the names of all sub-sections, sorted.
func (c *Config) Sections() []string {
	var out []string
	for k, v := range c.values {
		if _, ok := v.(map[string]any); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Get returns the value at a dot-separated path relative to this section.
func (c *Config) Get(path string) (any, bool) {
	return getPath(c.values, path)
}

// Attribute returns a scalar attribute of this section rendered as a
// string.
func (c *Config) Attribute(name string) (string, bool) {
	v, ok := c.values[name]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case map[string]any, []any:
		return "", false
	case string:
		return val, true
	default:
		return fmt.Sprint(val), true
	}
}

// GetString returns a string value at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, c.join(path))
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: c.join(path), Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at path. TOML integers, YAML integers
// and whole floats are accepted.
func (c *Config) GetInt(path string) (int64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, c.join(path))
	}
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		if val != float64(int64(val)) {
			return 0, &TypeError{Path: c.join(path), Expected: "int", Actual: "float64"}
		}
		return int64(val), nil
	default:
		return 0, &TypeError{Path: c.join(path), Expected: "int", Actual: typeName(v)}
	}
}

// IntOr returns the integer at path, or def when it is absent.
func (c *Config) IntOr(path string, def int64) (int64, error) {
	if _, ok := c.Get(path); !ok {
		return def, nil
	}
	return c.GetInt(path)
}

// GetBool returns a boolean value at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSettingNotFound, c.join(path))
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: c.join(path), Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Keys returns the keys of this section, sorted.
func (c *Config) Keys() []string {
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Map returns a deep copy of the section values.
func (c *Config) Map() map[string]any {
	return loader.Clone(c.values)
}

func (c *Config) join(name string) string {
	if c.path == "" {
		return name
	}
	return c.path + "." + name
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := any(m)
	for _, part := range parts {
		if part == "" {
			return nil, false
		}
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "section"
	default:
		return fmt.Sprintf("%T", v)
	}
}
