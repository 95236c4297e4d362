package gateway

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Tag groups cache entries for invalidation.
type Tag string

// Cache tags.
const (
	TagBooks  Tag = "Books"
	TagGenres Tag = "Genres"
)

type entry struct {
	data any
	tags []Tag
	seq  uint64
}

// cache is the read-through response cache keyed by resource path
// ("books", "genres", "books/genre/3").
//
// Every tag has a generation counter bumped on invalidation. A fetch
// records the generations of its tags before the request goes out and
// its response is only stored if none of them moved meanwhile.
type cache struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[Tag]uint64
}

func newCache() *cache {
	return &cache{
		entries:     make(map[string]entry),
		generations: make(map[Tag]uint64),
	}
}

func (c *cache) get(key string) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// snapshot returns the current generations of tags.
func (c *cache) snapshot(tags []Tag) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, len(tags))
	for i, t := range tags {
		out[i] = c.generations[t]
	}
	return out
}

// put stores e under key unless one of its tags was invalidated after gens
// was taken. It reports whether the entry was stored.
func (c *cache) put(key string, e entry, gens []uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range e.tags {
		if c.generations[t] != gens[i] {
			return false
		}
	}
	c.entries[key] = e
	return true
}

// invalidate drops every entry carrying one of tags and returns their keys.
func (c *cache) invalidate(tags ...Tag) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range tags {
		c.generations[t]++
	}

	var dropped []string
	for key, e := range c.entries {
		if slices.ContainsFunc(e.tags, func(t Tag) bool { return slices.Contains(tags, t) }) {
			delete(c.entries, key)
			dropped = append(dropped, key)
		}
	}
	slices.Sort(dropped)
	return dropped
}

func (c *cache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for key := range c.entries {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// flightKey identifies one generation of a resource, so concurrent reads
// share a request but never one that started before an invalidation.
func flightKey(key string, gens []uint64) string {
	var b strings.Builder
	b.WriteString(key)
	for _, g := range gens {
		b.WriteByte('@')
		b.WriteString(strconv.FormatUint(g, 10))
	}
	return b.String()
}
