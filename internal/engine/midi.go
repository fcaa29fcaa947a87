package engine

import (
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// Sender adapts a gomidi send function to the MIDI interface. Send errors
// are dropped; handlers have no way to react to them.
type Sender func(midi.Message) error

func (s Sender) SendShortMsg(status, data1, data2 byte) {
	_ = s(midi.Message{status, data1, data2})
}

// Recorder is a MIDI sink that keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []midi.Message
}

func (r *Recorder) SendShortMsg(status, data1, data2 byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, midi.Message{status, data1, data2})
}

// Messages returns a copy of the recorded messages in send order.
func (r *Recorder) Messages() []midi.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]midi.Message(nil), r.messages...)
}

// Last returns the most recent message sent to data1, or nil.
func (r *Recorder) Last(data1 byte) midi.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i][1] == data1 {
			return r.messages[i]
		}
	}
	return nil
}

// Reset forgets all recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
