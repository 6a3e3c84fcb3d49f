package sheet

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/htu-dlearn/courseboard/internal/course"
)

// Key identifies one cached load: the source and the parameters it was
// fetched with.
type Key struct {
	Source string
	Params string
}

func (k Key) String() string { return k.Source + "\x00" + k.Params }

// LoadFunc produces a dataset on a cache miss.
type LoadFunc func(ctx context.Context) (*course.Dataset, error)

// Cache memoizes datasets per key. Entries live until invalidated; failed
// loads are not stored. Concurrent misses for one key share a single load.
//
// Every source carries a generation that Invalidate bumps. A load that
// started under an older generation still answers its own callers but is
// not stored, and later misses do not join it.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*course.Dataset
	gens    map[string]uint64
	epoch   uint64
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: map[Key]*course.Dataset{}, gens: map[string]uint64{}}
}

func (c *Cache) lookup(key Key) (*course.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[key]
	return d, ok
}

// generation is the epoch and per-source counter a load is tagged with.
func (c *Cache) generation(source string) (uint64, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch, c.gens[source]
}

// Get returns the cached dataset for key or runs load. The shared load is
// detached from ctx cancellation so one caller going away does not fail
// the others; the fetcher's timeout bounds it.
func (c *Cache) Get(ctx context.Context, key Key, load LoadFunc) (*course.Dataset, error) {
	if d, ok := c.lookup(key); ok {
		return d, nil
	}
	epoch, gen := c.generation(key.Source)
	flight := fmt.Sprintf("%s\x00%d.%d", key, epoch, gen)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		if d, ok := c.lookup(key); ok {
			return d, nil
		}
		d, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch && c.gens[key.Source] == gen {
			c.entries[key] = d
		}
		c.mu.Unlock()
		return d, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*course.Dataset), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops every entry of source, including loads still in flight.
func (c *Cache) Invalidate(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[source]++
	n := 0
	for k := range c.entries {
		if k.Source == source {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	n := len(c.entries)
	c.entries = map[Key]*course.Dataset{}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
