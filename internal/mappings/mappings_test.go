package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	for _, name := range Names() {
		m, ok := Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, m.Name)
		assert.NotNil(t, m.New)
	}

	_, ok := Get("Unknown-Controller")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Behringer-CMD-DV1", "Hercules-DJ-Control-Instinct-P8"}, Names())
}
