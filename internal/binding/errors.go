package binding

import "fmt"

// DecorationError reports a decoration that does not follow the
// "hex[,hex-hex...]" grammar.
type DecorationError struct {
	Decoration string
	Reason     string
}

func (e *DecorationError) Error() string {
	return fmt.Sprintf("invalid decoration %q: %s", e.Decoration, e.Reason)
}

// UnrecognizedHandlerKindError is returned when a handler name carries none
// of the known suffixes (_button_down, _button_both, _encoder).
type UnrecognizedHandlerKindError struct {
	Name string
}

func (e *UnrecognizedHandlerKindError) Error() string {
	return fmt.Sprintf("can't deduce statuses from handler name %q", e.Name)
}
