package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/goleilao/internal/profile"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()

	res := profile.Result{URL: "https://site.example/lote/1", Confidence: 81.82}
	c.Set(res.URL, res)

	got, ok := c.Get(res.URL)
	require.True(t, ok)
	assert.Equal(t, res.URL, got.URL)
	assert.Equal(t, 81.82, got.Confidence)

	_, ok = c.Get("https://site.example/outro")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	defer c.Close()

	c.Set("u", profile.Result{URL: "u"})
	_, ok := c.Get("u")
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)
	_, ok = c.Get("u")
	assert.False(t, ok, "expired entry served")
}

func TestMemoryDisabledTTL(t *testing.T) {
	c := NewMemory(0)
	defer c.Close()

	c.Set("u", profile.Result{URL: "u"})
	_, ok := c.Get("u")
	assert.False(t, ok, "disabled cache stored an entry")
	assert.Equal(t, 0, c.Len())
}

func TestMemoryPurge(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()

	c.Set("a", profile.Result{URL: "a"})
	c.Set("b", profile.Result{URL: "b"})
	require.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCloseTwice(t *testing.T) {
	c := NewMemory(time.Minute)
	c.Close()
	c.Close()
}
