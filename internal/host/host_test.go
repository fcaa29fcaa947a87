package host

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-mixxx/internal/duck"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping/cmddv1"
	"github.com/PixPMusic/gopher-mixxx/internal/mappings"
	"github.com/PixPMusic/gopher-mixxx/internal/midi"
	"github.com/PixPMusic/gopher-mixxx/internal/preset"
)

const testPreset = `<MixxxControllerPreset>
  <controller id="CMD DV-1">
    <controls>
      <control>
        <midino>0x42</midino>
        <status>0x96</status>
        <key>Behringer.deck_button_down</key>
        <description>[auto-generated]</description>
        <options><script-binding/></options>
      </control>
      <control>
        <midino>0x5F</midino>
        <status>0x96</status>
        <key>Behringer.missing_button_down</key>
        <description>[auto-generated]</description>
        <options><script-binding/></options>
      </control>
      <control>
        <group>[Channel1]</group>
        <key>volume</key>
        <description>Volume</description>
        <status>0xB6</status>
        <midino>0x10</midino>
      </control>
    </controls>
    <outputs>
      <output>
        <midino>0x14</midino>
        <key>enabled</key>
        <group>[EffectRack1_EffectUnit1_Effect1]</group>
        <description>[auto-generated]</description>
        <on>0x1</on>
        <minimum>0.5</minimum>
        <status>0x96</status>
      </output>
    </outputs>
  </controller>
</MixxxControllerPreset>`

func newTestHost(t *testing.T, logs *bytes.Buffer) (*Host, *engine.Memory, *engine.Recorder) {
	t.Helper()
	p, err := preset.Decode(strings.NewReader(testPreset))
	require.NoError(t, err)

	mem := engine.NewMemory()
	rec := &engine.Recorder{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h, err := New(cmddv1.Mapping, p, mem, rec, logger)
	require.NoError(t, err)
	h.Start()
	t.Cleanup(h.Stop)
	return h, mem, rec
}

func TestDispatchScriptBinding(t *testing.T) {
	var logs bytes.Buffer
	h, _, _ := newTestHost(t, &logs)

	handled := h.Dispatch(midi.ShortMessage{Status: 0x96, Data1: 0x42, Data2: 0x7F})
	assert.True(t, handled)

	controller := h.Controller().(*cmddv1.Controller)
	assert.Equal(t, 3, controller.Decks().Focus())
	assert.Equal(t, duck.Active, controller.Decks().Deck(1))
}

func TestDispatchDirectBinding(t *testing.T) {
	var logs bytes.Buffer
	h, mem, _ := newTestHost(t, &logs)

	assert.True(t, h.Dispatch(midi.ShortMessage{Status: 0xB6, Data1: 0x10, Data2: 0x7F}))
	assert.Equal(t, 1.0, mem.GetValue("[Channel1]", "volume"))
}

func TestDispatchUnmapped(t *testing.T) {
	var logs bytes.Buffer
	h, _, _ := newTestHost(t, &logs)

	assert.False(t, h.Dispatch(midi.ShortMessage{Status: 0x86, Data1: 0x42, Data2: 0x00}))
	assert.False(t, h.Dispatch(midi.ShortMessage{Status: 0x96, Data1: 0x5F, Data2: 0x7F}), "unknown handler is not routed")
	assert.Contains(t, logs.String(), "preset references unknown handler")
}

func TestOutputs(t *testing.T) {
	var logs bytes.Buffer
	_, mem, rec := newTestHost(t, &logs)

	assert.Equal(t, gomidi.Message{0x96, 0x14, 0x00}, rec.Last(0x14))

	mem.SetValue("[EffectRack1_EffectUnit1_Effect1]", "enabled", 1)
	assert.Equal(t, gomidi.Message{0x96, 0x14, 0x01}, rec.Last(0x14))

	mem.SetValue("[EffectRack1_EffectUnit1_Effect1]", "enabled", 0.2)
	assert.Equal(t, gomidi.Message{0x96, 0x14, 0x00}, rec.Last(0x14))
}

func TestStopReleasesConnections(t *testing.T) {
	var logs bytes.Buffer
	h, mem, _ := newTestHost(t, &logs)

	h.Stop()
	assert.Zero(t, mem.Connections("[EffectRack1_EffectUnit1_Effect1]", "enabled"))
	assert.Zero(t, mem.Connections("[Master]", "duckStrength"))
}

func TestNewRejectsBadNumbers(t *testing.T) {
	doc := `<MixxxControllerPreset><controller><controls><control>
	<midino>0xZZ</midino><status>0x96</status><key>play</key>
	</control></controls></controller></MixxxControllerPreset>`
	p, err := preset.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = New(cmddv1.Mapping, p, engine.NewMemory(), engine.Discard, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "invalid midino")
}

func TestShippedPresetsResolveHandlers(t *testing.T) {
	for _, m := range mappings.All() {
		t.Run(m.Name, func(t *testing.T) {
			p, err := preset.Load(filepath.Join("..", "..", "presets", m.Name+".midi.xml"))
			require.NoError(t, err)

			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			h, err := New(m, p, engine.NewMemory(), engine.Discard, logger)
			require.NoError(t, err)

			h.Start()
			h.Stop()
			assert.NotContains(t, logs.String(), "unknown handler")
		})
	}
}
