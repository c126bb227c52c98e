package lru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New[string, int](4)
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestPutThenGet(t *testing.T) {
	c := New[string, int](4)
	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a"

	_, ok := c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("b")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestGetPromotesToMostRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // "a" now more recent than "b"
	c.Put("c", 3) // evicts "b"

	_, ok := c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
}

func TestZeroCapacityNeverRetains(t *testing.T) {
	c := New[string, int](0)
	c.Put("a", 1)
	_, ok := c.Get("a")
	require.False(t, ok)
}
