// Package loader reads configuration files into nested maps.
//
// TOML and YAML are supported; the format is chosen by file extension.
// A top-level "@include" key (string or list of strings) names files that
// are loaded first and overridden by the including file.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// MaxIncludeDepth limits nested @include directives.
const MaxIncludeDepth = 8

// ErrUnknownFormat indicates a file extension no format handles.
var ErrUnknownFormat = errors.New("unknown configuration format")

// FileSystem is an abstraction for file system operations.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format decodes one file format.
type Format struct {
	Name       string
	Extensions []string
	Decode     func(data []byte) (map[string]any, error)
}

// TOML is the TOML format.
var TOML = Format{
	Name:       "toml",
	Extensions: []string{".toml"},
	Decode: func(data []byte) (map[string]any, error) {
		var m map[string]any
		err := toml.Unmarshal(data, &m)
		return m, err
	},
}

// YAML is the YAML format.
var YAML = Format{
	Name:       "yaml",
	Extensions: []string{".yaml", ".yml"},
	Decode: func(data []byte) (map[string]any, error) {
		var m map[string]any
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if m == nil {
			m = make(map[string]any)
		}
		return m, nil
	},
}

var formats = []Format{TOML, YAML}

// FormatFor returns the format handling path's extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// FileLoader loads files of one format.
type FileLoader struct {
	fs     FileSystem
	format Format
}

// New creates a loader for format reading from fsys.
func New(fsys FileSystem, format Format) *FileLoader {
	return &FileLoader{fs: fsys, format: format}
}

// Format returns the loader's format.
func (l *FileLoader) Format() Format {
	return l.format
}

// LoadFrom reads path. It returns nil, nil when the file doesn't exist.
func (l *FileLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from r.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *FileLoader) parse(source string, data []byte) (map[string]any, error) {
	m, err := l.format.Decode(data)
	if err != nil {
		return nil, &ParseError{Path: source, Format: l.format.Name, Message: err.Error(), Err: err}
	}
	return m, nil
}

// LoadFile loads path with the format chosen by its extension and resolves
// @include directives relative to the including file.
func LoadFile(fsys FileSystem, path string) (map[string]any, error) {
	return loadWithIncludes(fsys, path, MaxIncludeDepth)
}

func loadWithIncludes(fsys FileSystem, path string, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	config, err := New(fsys, format).LoadFrom(path)
	if err != nil || config == nil {
		return config, err
	}

	includes, ok := config["@include"]
	if !ok {
		return config, nil
	}
	delete(config, "@include")

	var list []string
	switch v := includes.(type) {
	case string:
		list = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: @include must be string or array of strings", path)
			}
			list = append(list, s)
		}
	default:
		return nil, fmt.Errorf("%s: @include must be string or array of strings, got %T", path, includes)
	}

	base := filepath.Dir(path)
	for _, inc := range list {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(base, inc)
		}
		incConfig, err := loadWithIncludes(fsys, incPath, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		config = DeepMerge(incConfig, config)
	}
	return config, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Format  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s (%s): %s", e.Path, e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
