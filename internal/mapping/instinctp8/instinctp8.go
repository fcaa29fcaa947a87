// Package instinctp8 is the mapping of the Hercules DJ Control Instinct P8.
//
// The controller has a single scratch toggle for both decks. The loop and
// utility pads of either deck switch the multi knob into loop-move or
// pregain mode while held, and act as buttons on a short press.
package instinctp8

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
)

const (
	Name   = "Hercules-DJ-Control-Instinct-P8"
	Prefix = "DJControlInstinctP8"
)

const (
	noteOn        = 0x90
	controlChange = 0xB0

	lightsOff   = 0x00
	lightOn     = 0x7F
	lightLoaded = 0x7E
	lightHeld   = 0x7E
	lightActive = 0x7D

	lastLight = 0x5C

	scratchLED = 0x2D

	// ShortPress is the longest press still treated as a click.
	ShortPress = 500 * time.Millisecond

	knobCenter = 64
)

// Per-deck LEDs
type deckLEDs struct {
	group   string
	loaded  byte
	loop    byte
	keylock byte
}

var decks = []deckLEDs{
	{group: "[Channel1]", loaded: 0x1B, loop: 0x1A, keylock: 0x19},
	{group: "[Channel2]", loaded: 0x4C, loop: 0x49, keylock: 0x4A},
}

// Mapping registers the controller. Its preset is maintained by hand.
var Mapping = mapping.Mapping{
	Name:   Name,
	Prefix: Prefix,
	New: func(e engine.Engine, out engine.MIDI, logger *slog.Logger) mapping.Controller {
		return New(e, out, logger)
	},
}

// Controller holds the state of one loaded Instinct P8.
type Controller struct {
	engine engine.Engine
	out    engine.MIDI
	logger *slog.Logger
	now    func() time.Time

	scratchActive  bool
	moveLoopActive bool
	utilityActive  bool

	loopPressed    time.Time
	keylockPressed time.Time
	utilityPressed time.Time

	conns []engine.Connection
}

// New loads the mapping and wires the deck LEDs.
func New(e engine.Engine, out engine.MIDI, logger *slog.Logger) *Controller {
	c := &Controller{
		engine: e,
		out:    out,
		logger: logger.With("mapping", Name),
		now:    time.Now,
	}

	for _, deck := range decks {
		c.connectDeck(deck)
	}
	return c
}

func (c *Controller) connectDeck(deck deckLEDs) {
	connect := func(key string, callback engine.Callback) {
		c.conns = append(c.conns, c.engine.MakeConnection(deck.group, key, callback))
	}

	connect("track_loaded", func(value float64, _, _ string) {
		c.light(deck.loaded, value != 0, lightLoaded)
	})
	connect("loop_enabled", func(value float64, _, _ string) {
		c.light(deck.loop, value != 0, lightActive)
	})
	connect("keylock", func(value float64, _, _ string) {
		c.light(deck.keylock, value != 0, lightActive)
	})
	connect("sync_key", func(value float64, _, _ string) {
		if value != 0 {
			c.out.SendShortMsg(noteOn, deck.keylock, lightHeld)
		}
	})
	// Show the keylock state again once the key is reset.
	connect("reset_key", func(float64, string, string) {
		c.light(deck.keylock, c.engine.GetValue(deck.group, "keylock") != 0, lightActive)
	})
}

func (c *Controller) Init() {
	c.engine.SetValue("[Master]", "num_samplers", 8)
	c.lightsOff()

	// Ask the controller for its knob and slider positions. This garbles
	// the rates, so reset them afterwards.
	c.out.SendShortMsg(controlChange, 0x7F, 0x7F)
	for _, deck := range decks {
		c.engine.SetValue(deck.group, "rate_set_default", 1)
	}
	c.logger.Info("custom bindings initialized")
}

func (c *Controller) Shutdown() {
	c.logger.Info("shutdown")
	c.lightsOff()
	for _, conn := range c.conns {
		conn.Disconnect()
	}
	c.conns = nil
}

func (c *Controller) Handlers() map[string]mapping.Handler {
	return map[string]mapping.Handler{
		"noop":           c.noop,
		"scratchMode":    c.scratchMode,
		"jogWheel":       c.jogWheel,
		"pitch":          c.pitch,
		"ejectAndSwitch": c.ejectAndSwitch,
		"multiKnob":      c.multiKnob,
		"loopKnob":       c.loopKnob,
		"loopPad":        c.loopPad,
		"keylock":        c.keylock,
		"utilityPad":     c.utilityPad,
		"headphoneGain":  c.headphoneGain,
		"crossfader":     c.crossfader,
	}
}

// MIDIMappings is empty: every output of this controller is wired by hand.
func (c *Controller) MIDIMappings() binding.Table {
	return binding.Table{}
}

func (c *Controller) lightsOff() {
	for i := byte(0x01); i < lastLight; i++ {
		c.out.SendShortMsg(noteOn, i, lightsOff)
	}
}

func (c *Controller) light(control byte, on bool, color byte) {
	if !on {
		color = lightsOff
	}
	c.out.SendShortMsg(noteOn, control, color)
}

func (c *Controller) noop(ev mapping.Event) {
	c.logger.Debug("noop", "channel", ev.Channel, "control", ev.Control, "value", ev.Value, "status", ev.Status, "group", ev.Group)
}

func (c *Controller) scratchMode(mapping.Event) {
	c.scratchActive = !c.scratchActive
	c.light(scratchLED, c.scratchActive, lightOn)
}

func (c *Controller) jogWheel(ev mapping.Event) {
	direction := -1.0
	if ev.Value == 1 {
		direction = 1
	}
	c.logger.Debug("jog", "direction", direction, "scratch", c.scratchActive)

	if !c.scratchActive {
		c.engine.SetValue(ev.Group, "jog", 0.5*direction)
		return
	}
	// Seek only while the deck is faded out.
	if c.engine.GetValue(ev.Group, "volume") < 0.5 {
		position := c.engine.GetValue(ev.Group, "playposition") + direction/1000
		c.engine.SetValue(ev.Group, "playposition", min(1, max(0, position)))
	}
}

// pitch runs while shift is held and the jog wheel turns. Turning up
// slows the deck down.
func (c *Controller) pitch(ev mapping.Event) {
	delta := 1.0 / 1000
	if ev.Value == 0x7F {
		delta = -delta
	}
	c.engine.SetValue(ev.Group, "rate", c.engine.GetValue(ev.Group, "rate")-delta)
}

func (c *Controller) ejectAndSwitch(ev mapping.Event) {
	c.logger.Debug("switch", "channel", ev.Channel, "group", ev.Group)
	if ev.Value == 0 || c.engine.GetValue(ev.Group, "play") != 0 {
		return
	}

	group := ev.Group
	c.engine.SetValue(group, "eject", 1)
	c.engine.SetValue(group, "pfl", 1)
	c.engine.SetValue(group, "pregain", 1)
	c.engine.SetValue("[QuickEffectRack1_"+group+"]", "super1", 0.5)
	c.engine.SetValue(fmt.Sprintf("[EffectRack1_EffectUnit%s]", deckNumber(group)), "mix", 0)
	c.engine.SetValue(otherDeck(group), "pfl", 0)
	for i := 1; i <= 3; i++ {
		c.engine.SetValue("[EqualizerRack1_"+group+"_Effect1]", fmt.Sprintf("parameter%d", i), 1)
	}
}

func (c *Controller) multiKnob(ev mapping.Event) {
	down := ev.Value > knobCenter

	switch {
	case c.moveLoopActive:
		move := 1.0
		if down {
			move = -1
		}
		c.engine.SetValue(ev.Group, "loop_move", move)
	case c.utilityActive:
		step := 0.01
		if down {
			step = -step
		}
		c.engine.SetValue(ev.Group, "pregain", c.engine.GetValue(ev.Group, "pregain")+step)
	case down:
		c.engine.ToggleControl(ev.Group, "loop_halve")
	default:
		c.engine.ToggleControl(ev.Group, "loop_double")
	}
}

func (c *Controller) loopKnob(ev mapping.Event) {
	if ev.Value == 0 {
		return
	}
	if c.engine.GetValue(ev.Group, "loop_enabled") != 0 {
		c.engine.SetValue(ev.Group, "reloop_toggle", 1)
		return
	}
	c.engine.SetValue(ev.Group, "beatloop_activate", 1)
}

func (c *Controller) loopPad(ev mapping.Event) {
	if ev.Value == 0 {
		c.moveLoopActive = false
		if c.short(c.loopPressed) {
			c.engine.SetValue(ev.Group, "reloop_toggle", 1)
		}
	} else {
		c.loopPressed = c.now()
		c.moveLoopActive = true
	}
	c.light(loopLED(ev.Group), c.moveLoopActive, lightHeld)
}

// keylock toggles keylock on a click, or undoes a key sync. Holding the
// button enables keylock and syncs the key.
func (c *Controller) keylock(ev mapping.Event) {
	if ev.Value != 0 {
		c.keylockPressed = c.now()
		return
	}

	group := ev.Group
	if !c.short(c.keylockPressed) {
		c.engine.SetValue(group, "keylock", 1)
		c.engine.SetValue(group, "sync_key", 1)
		return
	}
	c.logger.Debug("keylock", "keylock", c.engine.GetValue(group, "keylock"), "sync_key", c.engine.GetValue(group, "sync_key"))
	if c.engine.GetValue(group, "sync_key") != 0 {
		c.engine.SetValue(group, "sync_key", 0)
		c.engine.SetValue(group, "reset_key", 1)
		return
	}
	engine.UpdateValue(c.engine, group, "keylock", 0, engine.UpdateOptions{Toggle: true})
}

func (c *Controller) utilityPad(ev mapping.Event) {
	// TODO: map stars_up and stars_down while the utility pad is held.
	if ev.Value == 0 {
		c.utilityActive = false
		if c.short(c.utilityPressed) {
			c.engine.SetValue(ev.Group, "beats_translate_curpos", 1)
		}
	} else {
		c.utilityPressed = c.now()
		c.utilityActive = true
	}
	c.light(loopLED(ev.Group), c.utilityActive, lightHeld)
}

// headphoneGain does nothing, the hardware handles it.
func (c *Controller) headphoneGain(mapping.Event) {}

// crossfader fades the effect unit of the side the fader leans to.
func (c *Controller) crossfader(ev mapping.Event) {
	unit, opposite := "1", "2"
	if ev.Value >= knobCenter {
		unit, opposite = "2", "1"
	}
	strength := float64(ev.Value) - knobCenter
	if strength < 0 {
		strength = -strength
	}

	c.engine.SetValue("[EffectRack1_EffectUnit"+unit+"]", "mix", strength/knobCenter)
	c.engine.SetValue("[EffectRack1_EffectUnit"+opposite+"]", "mix", 0)
}

func (c *Controller) short(pressed time.Time) bool {
	return c.now().Sub(pressed) < ShortPress
}

func deckNumber(group string) string {
	return strings.TrimSuffix(strings.TrimPrefix(group, "[Channel"), "]")
}

func otherDeck(group string) string {
	if group == decks[0].group {
		return decks[1].group
	}
	return decks[0].group
}

func loopLED(group string) byte {
	if group == decks[0].group {
		return decks[0].loop
	}
	return decks[1].loop
}
