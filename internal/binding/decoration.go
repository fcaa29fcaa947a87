package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxControl is the highest MIDI data byte.
const MaxControl = 0x7F

// ExpandDecoration turns a decoration such as "0x57,0x58-0x5F" into the
// control numbers it names, in order.
func ExpandDecoration(decoration string) ([]int, error) {
	if strings.Contains(decoration, ",") {
		var controls []int
		for _, part := range strings.Split(decoration, ",") {
			expanded, err := ExpandDecoration(part)
			if err != nil {
				return nil, err
			}
			controls = append(controls, expanded...)
		}
		return controls, nil
	}

	if lowerText, upperText, ok := strings.Cut(decoration, "-"); ok {
		lower, err := parseControl(decoration, lowerText)
		if err != nil {
			return nil, err
		}
		upper, err := parseControl(decoration, upperText)
		if err != nil {
			return nil, err
		}
		if upper < lower {
			return nil, &DecorationError{
				Decoration: decoration,
				Reason:     fmt.Sprintf("descending range 0x%X-0x%X", lower, upper),
			}
		}

		controls := make([]int, 0, upper-lower+1)
		for control := lower; control <= upper; control++ {
			controls = append(controls, control)
		}
		return controls, nil
	}

	control, err := parseControl(decoration, decoration)
	if err != nil {
		return nil, err
	}
	return []int{control}, nil
}

func parseControl(decoration, text string) (int, error) {
	digits := strings.TrimSpace(text)
	digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")
	if digits == "" {
		return 0, &DecorationError{Decoration: decoration, Reason: "empty control"}
	}

	value, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, &DecorationError{
			Decoration: decoration,
			Reason:     fmt.Sprintf("%q is not a hexadecimal byte", strings.TrimSpace(text)),
		}
	}
	if value > MaxControl {
		return 0, &DecorationError{
			Decoration: decoration,
			Reason:     fmt.Sprintf("control 0x%X is above 0x7F", value),
		}
	}
	return int(value), nil
}
