package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// ShortMessage is a three byte channel voice message, kept raw because
// presets match on the full status byte (0x96 with value 0 is not a note
// off).
type ShortMessage struct {
	Status byte
	Data1  byte
	Data2  byte
}

// Parse extracts a short message. ok is false for system, sysex and
// truncated messages.
func Parse(msg midi.Message) (ShortMessage, bool) {
	if len(msg) != 3 || msg[0] < 0x80 || msg[0] >= 0xF0 {
		return ShortMessage{}, false
	}
	if msg[1] > 0x7F || msg[2] > 0x7F {
		return ShortMessage{}, false
	}
	return ShortMessage{Status: msg[0], Data1: msg[1], Data2: msg[2]}, true
}

// Channel is the 0-indexed MIDI channel.
func (s ShortMessage) Channel() byte {
	return s.Status & 0x0F
}

// Message converts back to a gomidi message.
func (s ShortMessage) Message() midi.Message {
	return midi.Message{s.Status, s.Data1, s.Data2}
}

func (s ShortMessage) String() string {
	return fmt.Sprintf("0x%02X 0x%02X 0x%02X (%s)", s.Status, s.Data1, s.Data2, s.Message().Type())
}
