package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := NewScopedCache(time.Minute)
	defer c.Stop()

	c.Set("store1|2026-09-01", "menu1", []int{9, 10, 11})

	got, ok := c.Get("store1|2026-09-01", "menu1")
	require.True(t, ok)
	assert.Equal(t, []int{9, 10, 11}, got)
}

func TestMissOnUnknownKey(t *testing.T) {
	c := NewScopedCache(time.Minute)
	defer c.Stop()

	_, ok := c.Get("store1|2026-09-01", "menu1")
	assert.False(t, ok)
}

func TestInvalidateIsScoped(t *testing.T) {
	c := NewScopedCache(time.Minute)
	defer c.Stop()

	c.Set("store1|2026-09-01", "menu1", "a")
	c.Set("store1|2026-09-02", "menu1", "b")
	c.Set("store2|2026-09-01", "menu1", "c")

	c.Invalidate("store1|2026-09-01")

	_, ok := c.Get("store1|2026-09-01", "menu1")
	assert.False(t, ok, "invalidated scope must miss")

	got, ok := c.Get("store1|2026-09-02", "menu1")
	require.True(t, ok, "sibling date scope must survive")
	assert.Equal(t, "b", got)

	got, ok = c.Get("store2|2026-09-01", "menu1")
	require.True(t, ok, "other tenant's scope must survive")
	assert.Equal(t, "c", got)
}

func TestSetAfterInvalidateIsVisible(t *testing.T) {
	c := NewScopedCache(time.Minute)
	defer c.Stop()

	c.Set("s|d", "k", "old")
	c.Invalidate("s|d")
	c.Set("s|d", "k", "new")

	got, ok := c.Get("s|d", "k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestEntriesExpire(t *testing.T) {
	c := NewScopedCache(10 * time.Millisecond)
	defer c.Stop()

	c.Set("s|d", "k", "v")
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("s|d", "k")
	assert.False(t, ok)
}

func TestVersionBumps(t *testing.T) {
	c := NewScopedCache(time.Minute)
	defer c.Stop()

	require.EqualValues(t, 0, c.Version("s|d"))
	c.Invalidate("s|d")
	c.Invalidate("s|d")
	assert.EqualValues(t, 2, c.Version("s|d"))
}
