package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRistrettoCache_SetGetDelete(t *testing.T) {
	c, err := NewRistrettoCache[string](100)
	require.NoError(t, err)
	defer c.Close()

	c.Set("p-1", "alice", 0)
	v, ok := c.Get("p-1")
	require.True(t, ok)
	require.Equal(t, "alice", v)

	c.Delete("p-1")
	_, ok = c.Get("p-1")
	require.False(t, ok)
}
