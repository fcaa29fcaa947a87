// Package extract recovers the LED feedback table a mapping builds while it
// loads. Native mappings are loaded against an inert engine; legacy
// JavaScript mappings run in a sandbox that only offers stub runtime
// objects.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
)

// Error reports a failure while loading a mapping for extraction.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting mapping table of %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Table loads m against a fresh inert engine and returns its feedback table
// as button-down bindings.
func Table(m mapping.Mapping) (bindings []binding.Binding, err error) {
	if m.New == nil {
		return nil, &Error{Source: m.Name, Err: fmt.Errorf("mapping has no constructor")}
	}

	defer func() {
		if r := recover(); r != nil {
			bindings = nil
			err = &Error{Source: m.Name, Err: panicError(r)}
		}
	}()

	controller := m.New(engine.NewStub(), engine.Discard, slog.New(slog.DiscardHandler))
	return binding.FromTable(controller.MIDIMappings()), nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
