// Package mapping defines how a controller mapping plugs into the engine:
// a set of named MIDI handlers sharing one per-instance state object.
package mapping

import (
	"log/slog"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
)

// Event is one incoming MIDI message routed to a handler.
type Event struct {
	Channel byte
	Control byte
	Value   byte
	Status  byte
	Group   string // group of the preset entry that routed the message, may be empty
}

// Handler reacts to one MIDI message. Handlers run on the dispatcher's
// goroutine and must not block.
type Handler func(ev Event)

// Controller is one live instance of a mapping. It is created when the
// mapping is loaded, initialized once, fed events and shut down.
type Controller interface {
	Init()
	Shutdown()

	// Handlers returns the handler set keyed by unqualified name.
	Handlers() map[string]Handler

	// MIDIMappings returns the LED feedback table built at load time.
	MIDIMappings() binding.Table
}

// Mapping describes a controller mapping.
type Mapping struct {
	Name         string // preset and script name, e.g. "Behringer-CMD-DV1"
	Prefix       string // handler namespace, e.g. "Behringer"
	Declarations []binding.Declaration

	// New loads the mapping against an engine: it registers load-time
	// connections and builds the feedback table. Init is not called.
	New func(e engine.Engine, out engine.MIDI, logger *slog.Logger) Controller
}

// Key returns the qualified handler reference used in preset keys.
func (m Mapping) Key(handler string) string {
	if m.Prefix == "" {
		return handler
	}
	return m.Prefix + "." + handler
}
