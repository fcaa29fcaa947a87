// Package engine describes the slice of the Mixxx scripting runtime that
// controller mappings consume: control values, parameters, connections and
// raw MIDI output.
package engine

// Callback receives the new value of a connected control.
type Callback func(value float64, group, key string)

// Connection is a live subscription to one engine control.
type Connection interface {
	// Disconnect stops further callbacks.
	Disconnect()

	// Trigger invokes the callback immediately with the current value.
	Trigger()
}

// Engine is the control surface of the DJ software.
type Engine interface {
	GetValue(group, key string) float64
	SetValue(group, key string, value float64)

	// GetParameter and SetParameter use the normalized 0..1 range.
	GetParameter(group, key string) float64
	SetParameter(group, key string, value float64)

	MakeConnection(group, key string, callback Callback) Connection

	// ToggleControl flips a boolean control.
	ToggleControl(group, key string)
}

// MIDI sends raw short messages to the controller.
type MIDI interface {
	SendShortMsg(status, data1, data2 byte)
}

// UpdateOptions selects how UpdateValue changes a control.
type UpdateOptions struct {
	Parameter bool // use GetParameter/SetParameter instead of GetValue/SetValue
	Toggle    bool // ignore diff, write 1 when the current value is 0 and 0 otherwise
}

// UpdateValue applies a relative change (or a toggle) to a control with
// exactly one read and one write. No clamping is done.
func UpdateValue(e Engine, group, key string, diff float64, opts UpdateOptions) {
	get, set := e.GetValue, e.SetValue
	if opts.Parameter {
		get, set = e.GetParameter, e.SetParameter
	}

	current := get(group, key)
	next := current + diff
	if opts.Toggle {
		next = 0
		if current == 0 {
			next = 1
		}
	}
	set(group, key, next)
}
