// Package duck packs the activation state of the four decks into a single
// numeric control value so it can travel through one shared engine control
// ([Master] duckStrength) between controller instances.
package duck

// Size is the width of the packed integer range (16 bits).
const Size = 1 << 16

// DeckCount is the number of decks carried by one packed value.
const DeckCount = 4

// DeckStatus is the activation state of one deck (2 bits).
type DeckStatus int

const (
	Disabled    DeckStatus = 0
	Active      DeckStatus = 1
	ActiveFocus DeckStatus = 2 // the deck the controller currently addresses
	Additional  DeckStatus = 3
)

// Decks holds one status per deck. Index 0 is deck 1.
type Decks [DeckCount]DeckStatus

// Deck returns the status of the 1-indexed deck n.
func (d Decks) Deck(n int) DeckStatus {
	return d[n-1]
}

// Set updates the status of the 1-indexed deck n.
func (d *Decks) Set(n int, status DeckStatus) {
	d[n-1] = status
}

// Focus returns the 1-indexed deck holding ActiveFocus, or 0 if none does.
func (d Decks) Focus() int {
	for i, status := range d {
		if status == ActiveFocus {
			return i + 1
		}
	}
	return 0
}

// Encode packs the deck statuses into a fraction of Size. Every status
// must be within [0, 3]; larger values bleed into the neighbouring slot.
func Encode(decks Decks) float64 {
	code := 0
	for i, status := range decks {
		code += int(status) << (i * 2)
	}
	return float64(code) / Size
}

// Decode is the inverse of Encode.
func Decode(value float64) Decks {
	code := int(value * Size)
	var decks Decks
	for i := range decks {
		decks[i] = DeckStatus((code >> (i * 2)) & 3)
	}
	return decks
}
