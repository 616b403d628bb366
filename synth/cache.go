package synth

import (
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
)

// CacheKey identifies a completed class schema: the declaration plus the
// canonical signature of its type arguments.
type CacheKey struct {
	Decl source.DeclID
	Args string
}

// String returns "location#name" followed by the arguments, if any.
func (k CacheKey) String() string {
	if k.Args == "" {
		return k.Decl.String()
	}
	return k.Decl.String() + "<" + k.Args + ">"
}

// CacheEntry is a completed schema, the declarations expanded to build it,
// and the warnings raised meanwhile. An entry may only be reused where none
// of Deps is being synthesized.
type CacheEntry struct {
	Schema   *schema.Schema
	Deps     []source.DeclID
	Warnings []Warning
}

// SchemaCache stores completed class schemas for the lifetime of an engine.
//
// Stored nodes are never handed out directly: every read returns a deep copy,
// so callers may overlay constraints without corrupting the cache. Reads use
// Peek, which keeps the list in insertion order; eviction drops the oldest
// half once the limit is exceeded.
type SchemaCache struct {
	entries *simplelru.LRU[CacheKey, CacheEntry]
	limit   int
	hits    int
	misses  int
}

// NewSchemaCache returns a cache. A limit of zero or less means unbounded.
func NewSchemaCache(limit int) *SchemaCache {
	// The LRU's own size is never reached; eviction is handled by Add.
	entries, err := simplelru.NewLRU[CacheKey, CacheEntry](math.MaxInt, nil)
	if err != nil {
		panic(err) // unreachable: size is positive
	}
	return &SchemaCache{entries: entries, limit: max(limit, 0)}
}

// Get returns a copy of the entry stored under key.
func (c *SchemaCache) Get(key CacheKey) (CacheEntry, bool) {
	entry, ok := c.entries.Peek(key)
	if !ok {
		c.misses++
		return CacheEntry{}, false
	}
	c.hits++
	return entry.clone(), true
}

// Add stores a copy of entry under key, evicting the oldest half of the
// cache when the limit is exceeded.
func (c *SchemaCache) Add(key CacheKey, entry CacheEntry) {
	c.entries.Add(key, entry.clone())
	if c.limit > 0 && c.entries.Len() > c.limit {
		for evict := c.entries.Len() / 2; evict > 0; evict-- {
			c.entries.RemoveOldest()
		}
	}
}

// GetOrCompute returns a copy of the entry stored under key, computing and
// storing it first when absent.
func (c *SchemaCache) GetOrCompute(key CacheKey, compute func() CacheEntry) CacheEntry {
	if entry, ok := c.Get(key); ok {
		return entry
	}
	entry := compute()
	c.Add(key, entry)
	return entry.clone()
}

// Contains reports whether key is stored, without affecting statistics.
func (c *SchemaCache) Contains(key CacheKey) bool {
	return c.entries.Contains(key)
}

// Keys returns the stored keys, oldest first.
func (c *SchemaCache) Keys() []CacheKey {
	return c.entries.Keys()
}

// Len returns the number of stored entries.
func (c *SchemaCache) Len() int { return c.entries.Len() }

// Stats returns the hit and miss counts since the last Purge.
func (c *SchemaCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Purge removes every entry and resets statistics.
func (c *SchemaCache) Purge() {
	c.entries.Purge()
	c.hits, c.misses = 0, 0
}

func (e CacheEntry) clone() CacheEntry {
	return CacheEntry{
		Schema:   e.Schema.Clone(),
		Deps:     append([]source.DeclID(nil), e.Deps...),
		Warnings: append([]Warning(nil), e.Warnings...),
	}
}
