// Package cmddv1 is the mapping of the Behringer CMD DV-1 controller: four
// deck buttons sharing their focus with other controllers through
// [Master] duckStrength, two effect units of 16 encoders and 8 hotcue pads.
package cmddv1

import (
	"log/slog"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
	"github.com/PixPMusic/gopher-mixxx/internal/duck"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
)

const (
	Name   = "Behringer-CMD-DV1"
	Prefix = "Behringer"
)

// Channel is the MIDI channel the controller talks on (channel 7).
const Channel = 7 - 1

// Button colors
const (
	ColorOrange    = 0x00
	ColorBlue      = 0x01
	ColorBlueBlink = 0x02
)

const (
	EncoderOffset     = 0x40
	ButtonLEDCommand  = 0x90
	EncoderLEDCommand = 0xB0
	EncoderLEDCount   = 15

	encoderStep = 0.05
)

const (
	masterGroup = "[Master]"
	duckKey     = "duckStrength"
)

// Mapping registers the controller.
var Mapping = mapping.Mapping{
	Name:   Name,
	Prefix: Prefix,
	Declarations: []binding.Declaration{
		{Decoration: "0x40-0x43", Handler: "deck_button_down"},
		// 2 rows * 4 fx * 4 encoders
		{Decoration: "0x14-0x33", Handler: "fx_encoder"},
		{Decoration: "0x58-0x5F", Handler: "hotcue_button_down"},
		{Decoration: "0x57", Handler: "library_button_down"},
	},
	New: func(e engine.Engine, out engine.MIDI, logger *slog.Logger) mapping.Controller {
		return New(e, out, logger)
	},
}

// Controller holds the state of one loaded CMD DV-1.
type Controller struct {
	engine engine.Engine
	out    engine.MIDI
	logger *slog.Logger

	decks   duck.Decks
	table   binding.Table
	duck    engine.Connection
	hotcues []engine.Connection
	fx      []engine.Connection
}

// New loads the mapping: it subscribes to the shared deck state, wires the
// encoder LEDs and builds the feedback table.
func New(e engine.Engine, out engine.MIDI, logger *slog.Logger) *Controller {
	c := &Controller{
		engine: e,
		out:    out,
		logger: logger.With("mapping", Name),
		decks:  duck.Decks{duck.ActiveFocus, duck.Active, duck.Disabled, duck.Disabled},
		table:  make(binding.Table),
	}

	c.duck = e.MakeConnection(masterGroup, duckKey, func(value float64, _, _ string) {
		c.onDecks(value)
	})

	for _, control := range controlRange(FXOffset, FXCount) {
		c.fx = append(c.fx, c.connectFX(control))
	}
	return c
}

func (c *Controller) Init() {
	c.logger.Info("init")
	c.changeDeck(1)
}

func (c *Controller) Shutdown() {
	c.logger.Info("shutdown")
	c.duck.Disconnect()
	c.disconnectHotcues()
	for _, conn := range c.fx {
		conn.Disconnect()
	}
	c.fx = nil
}

func (c *Controller) Handlers() map[string]mapping.Handler {
	return map[string]mapping.Handler{
		"deck_button_down":    c.deckButtonDown,
		"fx_encoder":          c.fxEncoder,
		"hotcue_button_down":  c.hotcueButtonDown,
		"library_button_down": c.libraryButtonDown,
	}
}

func (c *Controller) MIDIMappings() binding.Table {
	return c.table
}

// Decks returns the last deck state received from the engine.
func (c *Controller) Decks() duck.Decks {
	return c.decks
}

func (c *Controller) deckButtonDown(ev mapping.Event) {
	c.changeDeck(DecodeDeck(int(ev.Control)).Number)
}

func (c *Controller) fxEncoder(ev mapping.Event) {
	fx := DecodeFX(int(ev.Control))
	delta := (float64(ev.Value) - EncoderOffset) * encoderStep

	switch fx.Position {
	case PositionMeta:
		engine.UpdateValue(c.engine, fx.EffectGroup(), "meta", delta, engine.UpdateOptions{})
	case PositionMix:
		engine.UpdateValue(c.engine, fx.UnitGroup(), "mix", delta, engine.UpdateOptions{})
	default:
		engine.UpdateValue(c.engine, fx.EffectGroup(), fx.ParameterKey(), delta, engine.UpdateOptions{Parameter: true})
	}
}

func (c *Controller) hotcueButtonDown(ev mapping.Event) {
	focus := c.decks.Focus()
	if focus == 0 {
		return
	}
	hotcue := DecodeHotcue(int(ev.Control))
	group := channelGroup(focus)
	c.logger.Debug("hotcue", "number", hotcue.Number, "group", group)

	if c.engine.GetValue(group, hotcue.StatusKey()) == 0 {
		c.engine.SetValue(group, hotcue.Key("set"), 1)
		return
	}
	c.engine.SetValue(group, hotcue.Key("goto"), 1)
}

func (c *Controller) libraryButtonDown(mapping.Event) {
	c.engine.ToggleControl("[Skin]", "show_maximized_library")
}

// changeDeck moves the focus to deck n and publishes the new state. The
// local state is only updated once the engine echoes it back. Decks outside
// 1..DeckCount are ignored.
func (c *Controller) changeDeck(n int) {
	if n < 1 || n > DeckCount {
		c.logger.Warn("no such deck", "deck", n)
		return
	}
	decks := c.decks
	if focus := decks.Focus(); focus != 0 {
		decks.Set(focus, duck.Active)
	}
	decks.Set(n, duck.ActiveFocus)

	c.engine.SetValue(masterGroup, duckKey, duck.Encode(decks))
}

func (c *Controller) onDecks(value float64) {
	c.decks = duck.Decode(value)
	c.logger.Debug("decks", "value", value, "decks", c.decks)

	for _, control := range controlRange(DeckOffset, DeckCount) {
		deck := DecodeDeck(control)
		c.setButtonColor(control, deckStatusToColor(c.decks.Deck(deck.Number)))
	}

	c.disconnectHotcues()
	focus := c.decks.Focus()
	if focus == 0 {
		return
	}
	group := channelGroup(focus)
	for _, control := range controlRange(HotcueOffset, HotcueCount) {
		hotcue := DecodeHotcue(control)
		conn := c.engine.MakeConnection(group, hotcue.StatusKey(), func(value float64, _, _ string) {
			c.setButtonColor(control, ledValue(value))
		})
		conn.Trigger()
		c.hotcues = append(c.hotcues, conn)
	}
}

func (c *Controller) disconnectHotcues() {
	for _, conn := range c.hotcues {
		conn.Disconnect()
	}
	c.hotcues = nil
}

func (c *Controller) connectFX(control int) engine.Connection {
	fx := DecodeFX(control)

	var conn engine.Connection
	switch fx.Position {
	case PositionMeta:
		c.table[control] = binding.TableEntry{
			Group: fx.EffectGroup(),
			Key:   "enabled",
			Type:  "BUTTON",
		}
		conn = c.engine.MakeConnection(fx.EffectGroup(), "meta", func(value float64, _, _ string) {
			c.setEncoderLED(control, value)
		})
	case PositionMix:
		conn = c.engine.MakeConnection(fx.UnitGroup(), "mix", func(value float64, _, _ string) {
			c.setEncoderLED(control, value)
		})
	default:
		conn = c.engine.MakeConnection(fx.EffectGroup(), fx.ParameterKey(), func(float64, string, string) {
			c.setEncoderLED(control, c.engine.GetParameter(fx.EffectGroup(), fx.ParameterKey()))
		})
	}
	conn.Trigger()
	return conn
}

func (c *Controller) setButtonColor(control int, color byte) {
	c.out.SendShortMsg(Channel|ButtonLEDCommand, byte(control), color)
}

func (c *Controller) setEncoderLED(control int, value float64) {
	c.out.SendShortMsg(Channel|EncoderLEDCommand, byte(control), ledValue(value*EncoderLEDCount))
}

func deckStatusToColor(status duck.DeckStatus) byte {
	if status > duck.ActiveFocus {
		return ColorOrange
	}
	return byte(status)
}

// ledValue truncates an engine value into a MIDI data byte.
func ledValue(value float64) byte {
	switch {
	case value <= 0:
		return 0
	case value >= 0x7F:
		return 0x7F
	}
	return byte(value)
}
