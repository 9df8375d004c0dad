// Package cache provides a bounded, content-addressed cache with
// single-flight computation: concurrent requests for the same key
// collapse into one compute, and capacity pressure evicts the least
// recently used entry.
package cache

import (
	"container/list"
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Recorder receives cache events. All methods may be called from
// concurrent workers.
type Recorder interface {
	Hit()
	Miss()
	Evict()
}

type entry[V any] struct {
	key   string
	value V
}

// Cache is a fixed-capacity LRU keyed by fingerprint.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	flight   singleflight.Group
	rec      Recorder
}

// New creates a Cache with the given capacity. rec may be nil.
func New[V any](capacity int, rec Recorder) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		rec:      rec,
	}
}

// GetOrCompute returns the cached value for key, or runs compute exactly
// once per key across concurrent callers and caches the result. A
// failed compute is propagated to every waiter and never cached, so the
// next call retries. If ctx ends while waiting, the caller gets ctx's
// error but the in-flight compute still completes and populates the
// cache for future callers.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func() (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		if c.rec != nil {
			c.rec.Hit()
		}
		return v, nil
	}
	if c.rec != nil {
		c.rec.Miss()
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		// Double-check: another flight may have populated the entry
		// between our miss and this compute being scheduled.
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Get returns the cached value without computing.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.get(key)
}

// Len returns the current entry count.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

func (c *Cache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

func (c *Cache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[V]).key)
		if c.rec != nil {
			c.rec.Evict()
		}
	}
}
