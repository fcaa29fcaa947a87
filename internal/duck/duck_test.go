package duck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllVectors(t *testing.T) {
	for code := 0; code < 256; code++ {
		var decks Decks
		for i := range decks {
			decks[i] = DeckStatus((code >> (i * 2)) & 3)
		}
		require.Equal(t, decks, Decode(Encode(decks)), "vector %v", decks)
	}
}

func TestEncodeExample(t *testing.T) {
	decks := Decks{Active, ActiveFocus, Disabled, Additional}

	encoded := Encode(decks)
	assert.Equal(t, 201.0/65536, encoded)
	assert.Equal(t, decks, Decode(encoded))
}

func TestDeckAccessors(t *testing.T) {
	decks := Decks{ActiveFocus, Active, Disabled, Disabled}
	assert.Equal(t, 1, decks.Focus())
	assert.Equal(t, Active, decks.Deck(2))

	decks.Set(1, Active)
	decks.Set(3, ActiveFocus)
	assert.Equal(t, 3, decks.Focus())

	assert.Equal(t, 0, Decks{}.Focus())
}
