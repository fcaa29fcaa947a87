// Package annotation extracts handler bindings from mapping scripts.
//
// A script declares its namespace once with a setup comment and precedes
// each bound handler assignment with a midi comment:
//
//	/* setup { "prefix": "Behringer" } */
//	...
//	/* midi 0x40-0x43 */
//	Behringer.deck_button_down = (channel, control) => { ... };
//
// Each control of the decoration is bound to the handler with the statuses
// its name implies (see binding.StatusesFor).
package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
)

const (
	SetupMarker = "/* setup"
	MidiMarker  = "/* midi"
	markerEnd   = " */"

	assignment = " = "
)

// Setup is the object carried by the setup comment.
type Setup struct {
	Prefix string `json:"prefix"`
}

// ErrNoSetup is returned for a decoration that appears before any setup
// comment.
var ErrNoSetup = errors.New("decoration before setup comment")

// ErrNotAssignment is returned when the line after a decoration does not
// assign a handler.
var ErrNotAssignment = errors.New("annotated line is not an assignment")

// ParseError reports an annotation that could not be parsed. Line is
// 1-indexed; it is 0 for declarations that do not come from source text.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("annotation %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse scans script lines and returns the bindings of every annotated
// handler assignment, in source order.
func Parse(lines []string, logger *slog.Logger) ([]binding.Binding, error) {
	var (
		setup          *Setup
		decoration     string
		decorationLine int
		pending        bool
		bindings       []binding.Binding
	)

	for i, line := range lines {
		lineNumber := i + 1

		switch {
		case strings.HasPrefix(line, SetupMarker):
			var s Setup
			if err := json.Unmarshal([]byte(stripMarkers(line, SetupMarker)), &s); err != nil {
				return nil, &ParseError{Line: lineNumber, Text: line, Err: fmt.Errorf("setup is not valid JSON: %w", err)}
			}
			setup = &s

		case strings.HasPrefix(line, MidiMarker):
			if pending {
				logger.Warn("decoration not followed by an assignment, overwritten",
					"line", decorationLine, "decoration", decoration)
			}
			decoration = stripMarkers(line, MidiMarker)
			decorationLine = lineNumber
			pending = true

		case pending:
			pending = false
			if setup == nil {
				return nil, &ParseError{Line: decorationLine, Text: decoration, Err: ErrNoSetup}
			}

			expression, _, ok := strings.Cut(line, assignment)
			if !ok {
				return nil, &ParseError{Line: lineNumber, Text: line, Err: ErrNotAssignment}
			}
			if !strings.HasPrefix(expression, setup.Prefix) {
				logger.Warn("wrong prefix", "line", lineNumber, "expression", expression, "prefix", setup.Prefix)
			}

			expanded, err := expand(setup.Prefix, expression, decoration)
			if err != nil {
				return nil, wrapLine(err, decorationLine, decoration)
			}
			bindings = append(bindings, expanded...)
		}
	}

	if pending {
		logger.Warn("decoration at end of script without an assignment",
			"line", decorationLine, "decoration", decoration)
	}
	return bindings, nil
}

// FromDeclarations expands a declarative binding table the same way Parse
// expands annotations. Handlers are qualified with prefix.
func FromDeclarations(prefix string, declarations []binding.Declaration) ([]binding.Binding, error) {
	var bindings []binding.Binding
	for _, declaration := range declarations {
		expression := declaration.Handler
		if prefix != "" {
			expression = prefix + "." + declaration.Handler
		}

		expanded, err := expand(prefix, expression, declaration.Decoration)
		if err != nil {
			return nil, wrapLine(err, 0, declaration.Decoration)
		}
		bindings = append(bindings, expanded...)
	}
	return bindings, nil
}

// expand binds every control of decoration, with every status implied by
// the handler name, to expression.
func expand(prefix, expression, decoration string) ([]binding.Binding, error) {
	controls, err := binding.ExpandDecoration(decoration)
	if err != nil {
		return nil, err
	}

	handler := strings.Replace(expression, prefix+".", "", 1)
	statuses, err := binding.StatusesFor(handler)
	if err != nil {
		return nil, err
	}

	bindings := make([]binding.Binding, 0, len(controls)*len(statuses))
	for _, control := range controls {
		for _, status := range statuses {
			bindings = append(bindings, binding.Binding{
				MidiControl: control,
				Status:      status,
				Key:         expression,
				Options:     binding.Options{ScriptBinding: true},
			})
		}
	}
	return bindings, nil
}

// wrapLine turns decoration errors into parse errors. Handler kind errors
// are returned unchanged.
func wrapLine(err error, line int, text string) error {
	var decorationErr *binding.DecorationError
	if errors.As(err, &decorationErr) {
		return &ParseError{Line: line, Text: text, Err: err}
	}
	return err
}

func stripMarkers(line, marker string) string {
	line = strings.Replace(line, marker, "", 1)
	return strings.Replace(line, markerEnd, "", 1)
}
