// Package binding models the MIDI bindings written into a controller preset
// and the compact decoration notation they are declared with.
package binding

import (
	"sort"
	"strings"
)

// MIDI status bytes used by the bindings (channel 7).
const (
	ButtonDown    = 0x96
	ButtonUp      = 0x86
	EncoderChange = 0xB6
)

// Options is the flag set of a binding.
type Options struct {
	// ScriptBinding marks a binding that invokes a script handler instead of
	// addressing a group/key directly.
	ScriptBinding bool
}

// Binding is one control or output row of a preset.
type Binding struct {
	MidiControl int
	Status      int
	Group       string // empty for script bindings
	Key         string
	Options     Options
}

// Declaration binds every control of a decoration to one handler.
type Declaration struct {
	Decoration string // e.g. "0x57,0x58-0x5F"
	Handler    string // unqualified handler name, e.g. "hotcue_button_down"
}

// TableEntry is one row of the LED feedback table a mapping builds at load
// time.
type TableEntry struct {
	Description string
	Group       string
	Key         string
	Type        string
}

// Table maps a control number to its feedback entry.
type Table map[int]TableEntry

// FromTable converts a feedback table into button-down bindings in
// ascending control order.
func FromTable(table Table) []Binding {
	controls := make([]int, 0, len(table))
	for control := range table {
		controls = append(controls, control)
	}
	sort.Ints(controls)

	bindings := make([]Binding, 0, len(controls))
	for _, control := range controls {
		entry := table[control]
		bindings = append(bindings, Binding{
			MidiControl: control,
			Status:      ButtonDown,
			Group:       entry.Group,
			Key:         entry.Key,
		})
	}
	return bindings
}

// StatusesFor derives the status bytes a handler is bound to from its name.
func StatusesFor(handler string) ([]int, error) {
	switch {
	case strings.Contains(handler, "_button_down"):
		return []int{ButtonDown}, nil
	case strings.Contains(handler, "_button_both"):
		return []int{ButtonDown, ButtonUp}, nil
	case strings.Contains(handler, "_encoder"):
		return []int{EncoderChange}, nil
	}
	return nil, &UnrecognizedHandlerKindError{Name: handler}
}
