package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munibond/internal/query"
)

func cachedTable(v float64) *query.Table {
	t := query.NewTable("v")
	t.Append(query.Row{"v": v})
	return t
}

func TestCache_GetPut(t *testing.T) {
	c := NewCache(0)

	_, ok := c.Get("m", "memory", "snap-1")
	assert.False(t, ok)

	want := cachedTable(1)
	c.Put("m", "memory", "snap-1", want)

	got, ok := c.Get("m", "memory", "snap-1")
	require.True(t, ok)
	assert.Same(t, want, got)

	// Same metric under a different backend or snapshot is a miss.
	_, ok = c.Get("m", "sql", "snap-1")
	assert.False(t, ok)
	_, ok = c.Get("m", "memory", "snap-2")
	assert.False(t, ok)
}

func TestCache_InvalidateSnapshot(t *testing.T) {
	c := NewCache(0)
	c.Put("a", "memory", "old", cachedTable(1))
	c.Put("b", "memory", "old", cachedTable(2))
	c.Put("a", "memory", "new", cachedTable(3))

	c.InvalidateSnapshot("old")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("a", "memory", "old")
	assert.False(t, ok)
	_, ok = c.Get("a", "memory", "new")
	assert.True(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("m", "memory", "snap-1", cachedTable(1))

	_, ok := c.Get("m", "memory", "snap-1")
	assert.True(t, ok)

	now = now.Add(59 * time.Second)
	_, ok = c.Get("m", "memory", "snap-1")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("m", "memory", "snap-1")
	assert.False(t, ok)
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewCache(0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("m", "memory", "snap-1", cachedTable(1))
	now = now.Add(1000 * time.Hour)

	_, ok := c.Get("m", "memory", "snap-1")
	assert.True(t, ok)
}

func TestCache_InvalidateAll(t *testing.T) {
	c := NewCache(0)
	c.Put("a", "memory", "s", cachedTable(1))
	c.Put("b", "memory", "s", cachedTable(2))

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}
