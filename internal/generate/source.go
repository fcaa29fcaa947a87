package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PixPMusic/gopher-mixxx/internal/annotation"
	"github.com/PixPMusic/gopher-mixxx/internal/binding"
	"github.com/PixPMusic/gopher-mixxx/internal/config"
	"github.com/PixPMusic/gopher-mixxx/internal/extract"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
	"github.com/PixPMusic/gopher-mixxx/internal/mappings"
)

// ErrUnknownMapping is returned when a name matches neither a built-in
// mapping nor a script file.
var ErrUnknownMapping = errors.New("unknown mapping")

// Source provides the two binding sets of one mapping.
type Source interface {
	Name() string

	// ScriptBindings are the bindings of the annotated handlers.
	ScriptBindings() ([]binding.Binding, error)

	// TableBindings are the bindings of the feedback table built at load
	// time.
	TableBindings() ([]binding.Binding, error)
}

// Resolve returns the built-in mapping of that name, or else the legacy
// script <scripts_dir>/<name>.js.
func Resolve(cfg *config.Config, name string, logger *slog.Logger) (Source, error) {
	if m, ok := mappings.Get(name); ok {
		return NativeSource{Mapping: m}, nil
	}

	path := cfg.ScriptPath(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q: no built-in mapping and no script %s", ErrUnknownMapping, name, path)
		}
		return nil, err
	}
	return &ScriptSource{Path: path, Logger: logger}, nil
}

// NativeSource reads the bindings of a Go mapping.
type NativeSource struct {
	Mapping mapping.Mapping
}

func (s NativeSource) Name() string {
	return s.Mapping.Name
}

func (s NativeSource) ScriptBindings() ([]binding.Binding, error) {
	return annotation.FromDeclarations(s.Mapping.Prefix, s.Mapping.Declarations)
}

func (s NativeSource) TableBindings() ([]binding.Binding, error) {
	return extract.Table(s.Mapping)
}

// ScriptSource reads the bindings of a legacy JavaScript mapping.
type ScriptSource struct {
	Path   string
	Logger *slog.Logger

	src *string
}

func (s *ScriptSource) Name() string {
	return s.Path
}

func (s *ScriptSource) ScriptBindings() ([]binding.Binding, error) {
	src, err := s.read()
	if err != nil {
		return nil, err
	}
	return annotation.Parse(strings.Split(src, "\n"), s.Logger)
}

func (s *ScriptSource) TableBindings() ([]binding.Binding, error) {
	src, err := s.read()
	if err != nil {
		return nil, err
	}
	return extract.Script(s.Path, src)
}

func (s *ScriptSource) read() (string, error) {
	if s.src != nil {
		return *s.src, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	src := strings.ReplaceAll(string(data), "\r\n", "\n")
	s.src = &src
	return src, nil
}
