package synth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
)

func cacheKey(i int) CacheKey {
	return CacheKey{Decl: source.DeclID{Location: "m.ts", Name: fmt.Sprintf("T%d", i)}}
}

func TestSchemaCache_GetOrCompute(t *testing.T) {
	c := NewSchemaCache(0)
	calls := 0
	compute := func() CacheEntry {
		calls++
		return CacheEntry{Schema: &schema.Schema{Type: "string"}}
	}

	first := c.GetOrCompute(cacheKey(1), compute)
	first.Schema.Type = "mutated"
	second := c.GetOrCompute(cacheKey(1), compute)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "string", second.Schema.Type)
	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestSchemaCache_EvictsOldestHalf(t *testing.T) {
	c := NewSchemaCache(4)
	for i := range 5 {
		c.Add(cacheKey(i), CacheEntry{Schema: schema.NewObject()})
	}

	require.Equal(t, 3, c.Len())
	assert.Equal(t, []CacheKey{cacheKey(2), cacheKey(3), cacheKey(4)}, c.Keys())
	assert.False(t, c.Contains(cacheKey(0)))
}

func TestSchemaCache_ReadsKeepInsertionOrder(t *testing.T) {
	c := NewSchemaCache(2)
	c.Add(cacheKey(0), CacheEntry{Schema: schema.NewObject()})
	c.Add(cacheKey(1), CacheEntry{Schema: schema.NewObject()})
	_, ok := c.Get(cacheKey(0))
	require.True(t, ok)

	c.Add(cacheKey(2), CacheEntry{Schema: schema.NewObject()})

	assert.Equal(t, []CacheKey{cacheKey(1), cacheKey(2)}, c.Keys())
}

func TestSchemaCache_Purge(t *testing.T) {
	c := NewSchemaCache(-3)
	c.Add(cacheKey(0), CacheEntry{Schema: schema.NewObject()})
	c.Get(cacheKey(0))

	c.Purge()

	assert.Zero(t, c.Len())
	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestCacheKey_String(t *testing.T) {
	assert.Equal(t, "m.ts#T1", cacheKey(1).String())
	assert.Equal(t, "m.ts#Page<string>", CacheKey{Decl: source.DeclID{Location: "m.ts", Name: "Page"}, Args: "string"}.String())
}

func TestEngine_CacheLimit(t *testing.T) {
	mem := source.NewMemory()
	for i := range 6 {
		mem.AddClass(class(fmt.Sprintf("T%d", i), prop("v", "string")))
	}
	e := newTestEngine(t, mem, WithCacheLimit(4))

	for i := range 6 {
		mustTransform(t, e, fmt.Sprintf("T%d", i))
	}

	assert.LessOrEqual(t, e.CacheLen(), 4)
	assert.Equal(t, []string{"v"}, mustTransform(t, e, "T0").Schema.PropertyNames())
}
