package instinctp8

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestController(t *testing.T) (*Controller, *engine.Memory, *engine.Recorder, *fakeClock) {
	t.Helper()
	mem := engine.NewMemory()
	rec := &engine.Recorder{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	c := New(mem, rec, slog.New(slog.DiscardHandler))
	c.now = clock.now
	return c, mem, rec, clock
}

func send(c *Controller, handler, group string, value byte) {
	c.Handlers()[handler](mapping.Event{Group: group, Value: value})
}

func TestInit(t *testing.T) {
	c, mem, rec, _ := newTestController(t)

	c.Init()

	assert.Equal(t, 8.0, mem.GetValue("[Master]", "num_samplers"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "rate_set_default"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "rate_set_default"))

	messages := rec.Messages()
	assert.Len(t, messages, lastLight)
	assert.Equal(t, midi.Message{0x90, 0x01, 0x00}, messages[0])
	assert.Equal(t, midi.Message{0xB0, 0x7F, 0x7F}, messages[len(messages)-1])
}

func TestScratchModeToggles(t *testing.T) {
	c, _, rec, _ := newTestController(t)

	send(c, "scratchMode", "[Channel1]", 0x7F)
	assert.True(t, c.scratchActive)
	assert.Equal(t, midi.Message{0x90, scratchLED, 0x7F}, rec.Last(scratchLED))

	send(c, "scratchMode", "[Channel1]", 0x7F)
	assert.False(t, c.scratchActive)
	assert.Equal(t, midi.Message{0x90, scratchLED, 0x00}, rec.Last(scratchLED))
}

func TestJogWheel(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	send(c, "jogWheel", "[Channel1]", 0x01)
	assert.Equal(t, 0.5, mem.GetValue("[Channel1]", "jog"))
	send(c, "jogWheel", "[Channel1]", 0x7F)
	assert.Equal(t, -0.5, mem.GetValue("[Channel1]", "jog"))

	c.scratchActive = true
	mem.SetValue("[Channel2]", "playposition", 0.9995)
	send(c, "jogWheel", "[Channel2]", 0x01)
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "playposition"))

	mem.SetValue("[Channel2]", "volume", 1)
	send(c, "jogWheel", "[Channel2]", 0x7F)
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "playposition"), "audible deck does not seek")
}

func TestPitch(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	send(c, "pitch", "[Channel1]", 0x01)
	assert.InDelta(t, -0.001, mem.GetValue("[Channel1]", "rate"), 1e-9)
	send(c, "pitch", "[Channel1]", 0x7F)
	send(c, "pitch", "[Channel1]", 0x7F)
	assert.InDelta(t, 0.001, mem.GetValue("[Channel1]", "rate"), 1e-9)
}

func TestEjectAndSwitch(t *testing.T) {
	c, mem, _, _ := newTestController(t)
	mem.SetValue("[Channel1]", "pfl", 1)
	mem.SetValue("[EffectRack1_EffectUnit2]", "mix", 0.7)

	send(c, "ejectAndSwitch", "[Channel2]", 0x00)
	assert.Zero(t, mem.GetValue("[Channel2]", "eject"), "release is ignored")

	send(c, "ejectAndSwitch", "[Channel2]", 0x7F)
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "eject"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "pfl"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "pregain"))
	assert.Equal(t, 0.5, mem.GetValue("[QuickEffectRack1_[Channel2]]", "super1"))
	assert.Zero(t, mem.GetValue("[EffectRack1_EffectUnit2]", "mix"))
	assert.Zero(t, mem.GetValue("[Channel1]", "pfl"))
	for _, key := range []string{"parameter1", "parameter2", "parameter3"} {
		assert.Equal(t, 1.0, mem.GetValue("[EqualizerRack1_[Channel2]_Effect1]", key), key)
	}
}

func TestEjectIgnoredWhilePlaying(t *testing.T) {
	c, mem, _, _ := newTestController(t)
	mem.SetValue("[Channel1]", "play", 1)

	send(c, "ejectAndSwitch", "[Channel1]", 0x7F)
	assert.Zero(t, mem.GetValue("[Channel1]", "eject"))
}

func TestMultiKnobModes(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	send(c, "multiKnob", "[Channel1]", 0x41)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "loop_halve"))
	send(c, "multiKnob", "[Channel1]", 0x01)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "loop_double"))

	c.moveLoopActive = true
	send(c, "multiKnob", "[Channel1]", 0x41)
	assert.Equal(t, -1.0, mem.GetValue("[Channel1]", "loop_move"))
	send(c, "multiKnob", "[Channel1]", 0x01)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "loop_move"))

	c.moveLoopActive = false
	c.utilityActive = true
	mem.SetValue("[Channel1]", "pregain", 1)
	send(c, "multiKnob", "[Channel1]", 0x41)
	assert.InDelta(t, 0.99, mem.GetValue("[Channel1]", "pregain"), 1e-9)
}

func TestLoopKnob(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	send(c, "loopKnob", "[Channel1]", 0x7F)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "beatloop_activate"))

	mem.SetValue("[Channel1]", "loop_enabled", 1)
	send(c, "loopKnob", "[Channel1]", 0x7F)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "reloop_toggle"))
}

func TestLoopPadPressLength(t *testing.T) {
	c, mem, rec, clock := newTestController(t)

	send(c, "loopPad", "[Channel1]", 0x7F)
	assert.True(t, c.moveLoopActive)
	assert.Equal(t, midi.Message{0x90, 0x1A, 0x7E}, rec.Last(0x1A))

	clock.advance(ShortPress + time.Millisecond)
	send(c, "loopPad", "[Channel1]", 0x00)
	assert.False(t, c.moveLoopActive)
	assert.Zero(t, mem.GetValue("[Channel1]", "reloop_toggle"), "long press only moves the loop")
	assert.Equal(t, midi.Message{0x90, 0x1A, 0x00}, rec.Last(0x1A))

	send(c, "loopPad", "[Channel2]", 0x7F)
	clock.advance(100 * time.Millisecond)
	send(c, "loopPad", "[Channel2]", 0x00)
	assert.Equal(t, 1.0, mem.GetValue("[Channel2]", "reloop_toggle"))
}

func TestKeylock(t *testing.T) {
	c, mem, _, clock := newTestController(t)

	// click toggles keylock
	send(c, "keylock", "[Channel1]", 0x7F)
	send(c, "keylock", "[Channel1]", 0x00)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "keylock"))
	send(c, "keylock", "[Channel1]", 0x7F)
	send(c, "keylock", "[Channel1]", 0x00)
	assert.Zero(t, mem.GetValue("[Channel1]", "keylock"))

	// hold syncs the key
	send(c, "keylock", "[Channel1]", 0x7F)
	clock.advance(time.Second)
	send(c, "keylock", "[Channel1]", 0x00)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "keylock"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "sync_key"))

	// click after a sync resets the key
	send(c, "keylock", "[Channel1]", 0x7F)
	send(c, "keylock", "[Channel1]", 0x00)
	assert.Zero(t, mem.GetValue("[Channel1]", "sync_key"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "reset_key"))
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "keylock"))
}

func TestKeylockLEDs(t *testing.T) {
	_, mem, rec, _ := newTestController(t)

	mem.SetValue("[Channel2]", "keylock", 1)
	assert.Equal(t, midi.Message{0x90, 0x4A, 0x7D}, rec.Last(0x4A))
	mem.SetValue("[Channel2]", "sync_key", 1)
	assert.Equal(t, midi.Message{0x90, 0x4A, 0x7E}, rec.Last(0x4A))
	mem.SetValue("[Channel2]", "reset_key", 1)
	assert.Equal(t, midi.Message{0x90, 0x4A, 0x7D}, rec.Last(0x4A))
}

func TestDeckLEDs(t *testing.T) {
	_, mem, rec, _ := newTestController(t)

	mem.SetValue("[Channel1]", "track_loaded", 1)
	assert.Equal(t, midi.Message{0x90, 0x1B, 0x7E}, rec.Last(0x1B))
	mem.SetValue("[Channel2]", "loop_enabled", 1)
	assert.Equal(t, midi.Message{0x90, 0x49, 0x7D}, rec.Last(0x49))
	mem.SetValue("[Channel2]", "loop_enabled", 0)
	assert.Equal(t, midi.Message{0x90, 0x49, 0x00}, rec.Last(0x49))
}

func TestUtilityPad(t *testing.T) {
	c, mem, _, clock := newTestController(t)

	send(c, "utilityPad", "[Channel1]", 0x7F)
	assert.True(t, c.utilityActive)
	clock.advance(10 * time.Millisecond)
	send(c, "utilityPad", "[Channel1]", 0x00)
	assert.False(t, c.utilityActive)
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "beats_translate_curpos"))
}

func TestCrossfader(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	send(c, "crossfader", "", 0x00)
	assert.Equal(t, 1.0, mem.GetValue("[EffectRack1_EffectUnit1]", "mix"))
	assert.Zero(t, mem.GetValue("[EffectRack1_EffectUnit2]", "mix"))

	send(c, "crossfader", "", 0x60)
	assert.Equal(t, 0.5, mem.GetValue("[EffectRack1_EffectUnit2]", "mix"))
	assert.Zero(t, mem.GetValue("[EffectRack1_EffectUnit1]", "mix"))
}

func TestShutdown(t *testing.T) {
	c, mem, _, _ := newTestController(t)

	c.Shutdown()
	assert.Zero(t, mem.Connections("[Channel1]", "track_loaded"))
	assert.Zero(t, mem.Connections("[Channel2]", "reset_key"))
	assert.Empty(t, c.MIDIMappings())
	assert.Empty(t, Mapping.Declarations)
}
