package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](time.Minute, 0, clock.Now)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_evictsSoonestToExpire(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](time.Minute, 2, clock.Now)

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	// Overwriting an existing key never evicts.
	c.Set("c", 30)
	assert.Equal(t, 2, c.Len())
}
