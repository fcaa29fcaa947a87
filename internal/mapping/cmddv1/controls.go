package cmddv1

import "fmt"

// Control families of the CMD DV-1 surface
const (
	DeckOffset   = 0x40 // 4 deck select buttons
	FXOffset     = 0x14 // 2 units x 4 effects x 4 encoders
	HotcueOffset = 0x58 // 8 hotcue pads

	LibraryControl = 0x57

	DeckCount     = 4
	FXCount       = 32
	HotcueCount   = 8
	fxUnitSize    = 16
	fxEncoderSize = 4
)

// FXPosition is the role of an encoder within its effect column.
type FXPosition int

const (
	PositionMeta       FXPosition = 0
	PositionParameter1 FXPosition = 1
	PositionParameter2 FXPosition = 2
	PositionMix        FXPosition = 3
)

// DeckControl is a decoded deck button.
type DeckControl struct {
	Number int // 1-indexed deck
}

// FXControl is a decoded effect encoder.
type FXControl struct {
	Unit     int // 1 or 2
	Number   int // effect within the unit, 1-indexed
	Position FXPosition
}

// HotcueControl is a decoded hotcue pad.
type HotcueControl struct {
	Number int // 1-indexed hotcue
}

// DecodeDeck maps a deck button to its deck.
func DecodeDeck(control int) DeckControl {
	return DeckControl{Number: control - DeckOffset + 1}
}

// DecodeFX maps an encoder of the FX block to its effect slot. The first 16
// encoders belong to unit 1, the next 16 to unit 2.
func DecodeFX(control int) FXControl {
	relative := control - FXOffset
	unit := 1
	if relative >= fxUnitSize {
		unit = 2
		relative -= fxUnitSize
	}
	return FXControl{
		Unit:     unit,
		Number:   relative/fxEncoderSize + 1,
		Position: FXPosition(relative % fxEncoderSize),
	}
}

// DecodeHotcue maps a pad to its hotcue. The pads are rotated by four so
// the lower row holds hotcues 1-4.
func DecodeHotcue(control int) HotcueControl {
	number := control - HotcueOffset - 4
	if number < 0 {
		number += HotcueCount
	}
	return HotcueControl{Number: number + 1}
}

// EffectGroup is the engine group of the effect slot.
func (f FXControl) EffectGroup() string {
	return fmt.Sprintf("[EffectRack1_EffectUnit%d_Effect%d]", f.Unit, f.Number)
}

// UnitGroup is the engine group of the effect unit.
func (f FXControl) UnitGroup() string {
	return fmt.Sprintf("[EffectRack1_EffectUnit%d]", f.Unit)
}

// ParameterKey is the parameter addressed by a parameter encoder.
func (f FXControl) ParameterKey() string {
	return fmt.Sprintf("parameter%d", int(f.Position))
}

// Key returns the engine key of a hotcue control, e.g. "hotcue_3_set".
func (h HotcueControl) Key(name string) string {
	return fmt.Sprintf("hotcue_%d_%s", h.Number, name)
}

// StatusKey is the engine key holding the hotcue state.
func (h HotcueControl) StatusKey() string {
	return h.Key("status")
}

func channelGroup(deck int) string {
	return fmt.Sprintf("[Channel%d]", deck)
}

func controlRange(start, count int) []int {
	controls := make([]int, count)
	for i := range controls {
		controls[i] = start + i
	}
	return controls
}
