// Package lru implements a small fixed-capacity least-recently-used
// cache used to memoize resolved context indices: a doubly linked
// list tracks recency order and a map gives O(1) lookup into it.
package lru

import "container/list"

// Cache is a fixed-capacity LRU cache. It is not safe for concurrent
// use; callers that need concurrent access must serialize it
// themselves.
type Cache[K comparable, V any] struct {
	capacity int
	ll       *list.List
	items    map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New returns a cache that evicts its least-recently-used entry once
// more than capacity entries are held. A non-positive capacity
// produces a cache that never retains anything, which still satisfies
// the cache's contract (every lookup simply misses).
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Get returns the value for key and promotes it to most-recently-used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Put inserts or updates key's value, evicting the least-recently-used
// entry if the cache is over capacity afterwards.
func (c *Cache[K, V]) Put(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&entry[K, V]{key: key, value: value})
	c.items[key] = el
	for c.ll.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *Cache[K, V]) evictOldest() {
	oldest := c.ll.Back()
	if oldest == nil {
		return
	}
	c.ll.Remove(oldest)
	delete(c.items, oldest.Value.(*entry[K, V]).key)
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	return c.ll.Len()
}
