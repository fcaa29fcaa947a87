// Package host plays the part of the DJ software for a single controller:
// it routes incoming MIDI through the entries of a preset to the mapping's
// handlers or straight to engine controls, and drives the preset outputs.
package host

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
	"github.com/PixPMusic/gopher-mixxx/internal/midi"
	"github.com/PixPMusic/gopher-mixxx/internal/preset"
)

const scriptBindingOption = "script-binding"

// Host runs one mapping against an engine.
type Host struct {
	mu sync.Mutex

	engine     engine.Engine
	out        engine.MIDI
	controller mapping.Controller
	logger     *slog.Logger

	routes  map[route][]target
	outputs []output
	conns   []engine.Connection
}

type route struct {
	status byte
	midino byte
}

type target struct {
	group   string
	key     string
	handler mapping.Handler // nil for direct control bindings
}

type output struct {
	group, key string
	status     byte
	midino     byte
	on, off    byte
	minimum    float64
	maximum    float64 // 0 means unbounded
}

// New loads m against e and compiles the routes of p. Script bindings that
// name an unknown handler are skipped with a warning.
func New(m mapping.Mapping, p *preset.Preset, e engine.Engine, out engine.MIDI, logger *slog.Logger) (*Host, error) {
	h := &Host{
		engine:     e,
		out:        out,
		controller: m.New(e, out, logger),
		logger:     logger.With("mapping", m.Name),
		routes:     make(map[route][]target),
	}

	handlers := h.controller.Handlers()
	for _, control := range p.Controls() {
		r, err := parseRoute(control)
		if err != nil {
			return nil, err
		}

		t := target{group: control.Field("group"), key: control.Field("key")}
		if control.HasOption(scriptBindingOption) {
			name := strings.TrimPrefix(t.key, m.Prefix+".")
			handler, ok := handlers[name]
			if !ok {
				h.logger.Warn("preset references unknown handler", "key", t.key, "midino", preset.FormatHex(int(r.midino)))
				continue
			}
			t.handler = handler
		}
		h.routes[r] = append(h.routes[r], t)
	}

	for _, entry := range p.Outputs() {
		o, err := parseOutput(entry)
		if err != nil {
			return nil, err
		}
		h.outputs = append(h.outputs, o)
	}
	return h, nil
}

// Start initializes the controller and lights the outputs.
func (h *Host) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.controller.Init()
	for _, o := range h.outputs {
		conn := h.engine.MakeConnection(o.group, o.key, func(value float64, _, _ string) {
			h.out.SendShortMsg(o.status, o.midino, o.value(value))
		})
		conn.Trigger()
		h.conns = append(h.conns, conn)
	}
}

// Stop shuts the controller down and releases the outputs.
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.conns {
		conn.Disconnect()
	}
	h.conns = nil
	h.controller.Shutdown()
}

// Dispatch routes one incoming message. It reports whether any preset
// entry matched.
func (h *Host) Dispatch(msg midi.ShortMessage) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := h.routes[route{status: msg.Status, midino: msg.Data1}]
	if len(targets) == 0 {
		h.logger.Debug("unmapped message", "message", msg)
		return false
	}

	for _, t := range targets {
		if t.handler != nil {
			t.handler(mapping.Event{
				Channel: msg.Channel(),
				Control: msg.Data1,
				Value:   msg.Data2,
				Status:  msg.Status,
				Group:   t.group,
			})
			continue
		}
		h.engine.SetValue(t.group, t.key, float64(msg.Data2)/0x7F)
	}
	return true
}

// Controller returns the running controller.
func (h *Host) Controller() mapping.Controller {
	return h.controller
}

func (o output) value(v float64) byte {
	if v >= o.minimum && (o.maximum == 0 || v <= o.maximum) {
		return o.on
	}
	return o.off
}

func parseRoute(entry *preset.Node) (route, error) {
	status, err := parseByte(entry, "status", "")
	if err != nil {
		return route{}, err
	}
	midino, err := parseByte(entry, "midino", "")
	if err != nil {
		return route{}, err
	}
	return route{status: status, midino: midino}, nil
}

func parseOutput(entry *preset.Node) (output, error) {
	r, err := parseRoute(entry)
	if err != nil {
		return output{}, err
	}
	on, err := parseByte(entry, "on", "0x7F")
	if err != nil {
		return output{}, err
	}
	off, err := parseByte(entry, "off", "0x00")
	if err != nil {
		return output{}, err
	}
	minimum, err := parseFloat(entry, "minimum", 0.5)
	if err != nil {
		return output{}, err
	}
	maximum, err := parseFloat(entry, "maximum", 0)
	if err != nil {
		return output{}, err
	}

	return output{
		group:   entry.Field("group"),
		key:     entry.Field("key"),
		status:  r.status,
		midino:  r.midino,
		on:      on,
		off:     off,
		minimum: minimum,
		maximum: maximum,
	}, nil
}

func parseByte(entry *preset.Node, field, fallback string) (byte, error) {
	text := entry.Field(field)
	if text == "" {
		text = fallback
	}
	value, err := preset.ParseHex(text)
	if err != nil || value < 0 || value > 0xFF {
		return 0, fmt.Errorf("invalid %s %q in <%s> %q", field, text, entry.Name(), entry.Field("key"))
	}
	return byte(value), nil
}

func parseFloat(entry *preset.Node, field string, fallback float64) (float64, error) {
	text := entry.Field(field)
	if text == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q in <%s> %q: %w", field, text, entry.Name(), entry.Field("key"), err)
	}
	return value, nil
}
