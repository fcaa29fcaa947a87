package preset

import (
	"strconv"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
)

// Marker is the description of every entry owned by the generator. Entries
// with any other description are maintained by hand.
const Marker = "[auto-generated]"

// OutputStyle holds the fixed fields of generated output entries.
type OutputStyle struct {
	On      int     // LED value sent when the control is on
	Minimum float64 // lowest control value that lights the LED
}

// DefaultOutputStyle lights the button blue from half value on.
var DefaultOutputStyle = OutputStyle{On: 0x01, Minimum: 0.5}

// Partition splits entries into hand-maintained and generated ones, keeping
// document order.
func Partition(entries []*Node) (manual, generated []*Node) {
	for _, entry := range entries {
		if entry.generated() {
			generated = append(generated, entry)
		} else {
			manual = append(manual, entry)
		}
	}
	return manual, generated
}

// Merge replaces the generated control and output entries. Controls become
// the manual controls followed by the script bindings and the table
// bindings. Outputs become the manual outputs followed by the table
// bindings.
func (p *Preset) Merge(scriptBindings, tableBindings []binding.Binding, style OutputStyle) {
	manualControls, _ := Partition(p.Controls())
	manualOutputs, _ := Partition(p.Outputs())

	controls := manualControls
	for _, b := range scriptBindings {
		controls = append(controls, ControlEntry(b))
	}
	for _, b := range tableBindings {
		controls = append(controls, ControlEntry(b))
	}

	outputs := manualOutputs
	for _, b := range tableBindings {
		outputs = append(outputs, OutputEntry(b, style))
	}

	controller := p.Controller()
	controller.ensure("controls").replaceChildren("control", controls)
	controller.ensure("outputs").replaceChildren("output", outputs)
}

// ControlEntry renders a binding as a generated <control>.
func ControlEntry(b binding.Binding) *Node {
	entry := NewParent("control",
		NewNode("midino", FormatHex(b.MidiControl)),
		NewNode("status", FormatHex(b.Status)),
		NewNode("key", b.Key),
	)
	if b.Group != "" {
		entry.Nodes = append(entry.Nodes, NewNode("group", b.Group))
	}
	entry.Nodes = append(entry.Nodes, NewNode("description", Marker))
	if b.Options.ScriptBinding {
		entry.Nodes = append(entry.Nodes, NewParent("options", NewParent("script-binding")))
	}
	return entry
}

// OutputEntry renders a table binding as a generated <output>.
func OutputEntry(b binding.Binding, style OutputStyle) *Node {
	return NewParent("output",
		NewNode("midino", FormatHex(b.MidiControl)),
		NewNode("key", b.Key),
		NewNode("group", b.Group),
		NewNode("description", Marker),
		NewNode("on", FormatHex(style.On)),
		NewNode("minimum", strconv.FormatFloat(style.Minimum, 'f', -1, 64)),
		NewNode("status", FormatHex(binding.ButtonDown)),
	)
}
