package donation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup("usdt_trc20")
	require.True(t, ok)
	assert.Equal(t, "USDT (Tether)", c.Name)
	assert.Equal(t, "TRC20 (Tron Network)", c.Network)
	assert.Equal(t, "TFGcWZsE2zRyHXBUtuZSCBqpjZAwEo3YY3", c.Address)

	_, ok = Lookup("monero")
	assert.False(t, ok)
}

func TestRows(t *testing.T) {
	rows := Rows()
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, RowSize)
	}
	assert.Equal(t, "bitcoin", rows[0][0].Key)
	assert.Equal(t, "usdt_trc20", rows[1][0].Key)
	assert.Equal(t, "pepecoin", rows[2][2].Key)
}

func TestAllUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range All() {
		assert.False(t, seen[c.Key], c.Key)
		seen[c.Key] = true
		assert.NotEmpty(t, c.Address)
	}
	assert.Len(t, seen, 9)
}
