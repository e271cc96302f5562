package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
)

// DefaultCapacity is used by New when capacity is less than one.
const DefaultCapacity = 1024

// ErrExists is returned by Add when the key is already present.
var ErrExists = errors.New("item already exists")

type item[K comparable, V any] struct {
	Key    K
	Object V
}

// Cache is a bounded in-memory Store. Once it holds capacity items, adding a
// new key evicts the least recently used one.
type Cache[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	order     *list.List // front is most recently used
	mu        sync.Mutex
	onEvicted func(K, V)
}

// Add an item to the cache, replacing any existing item. The item becomes the
// most recently used one.
func (c *Cache[K, V]) Set(k K, x V) {
	c.mu.Lock()
	evicted, ok := c.set(k, x)
	f := c.onEvicted
	c.mu.Unlock()
	if ok && f != nil {
		f(evicted.Key, evicted.Object)
	}
}

func (c *Cache[K, V]) set(k K, x V) (item[K, V], bool) {
	if el, found := c.items[k]; found {
		el.Value = item[K, V]{Key: k, Object: x}
		c.order.MoveToFront(el)
		return item[K, V]{}, false
	}
	c.items[k] = c.order.PushFront(item[K, V]{Key: k, Object: x})
	if c.order.Len() <= c.capacity {
		return item[K, V]{}, false
	}
	return c.removeElement(c.order.Back()), true
}

// Add an item to the cache only if an item doesn't already exist for the given
// key. Returns an error wrapping ErrExists otherwise.
func (c *Cache[K, V]) Add(k K, x V) error {
	c.mu.Lock()
	if _, found := c.items[k]; found {
		c.mu.Unlock()
		return fmt.Errorf("item %v: %w", k, ErrExists)
	}
	evicted, ok := c.set(k, x)
	f := c.onEvicted
	c.mu.Unlock()
	if ok && f != nil {
		f(evicted.Key, evicted.Object)
	}
	return nil
}

// Get an item from the cache. Returns the item or the zero value, and a bool
// indicating whether the key was found. A hit marks the item as recently used.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	el, found := c.items[k]
	if !found {
		c.mu.Unlock()
		var v V
		return v, false
	}
	c.order.MoveToFront(el)
	c.mu.Unlock()
	return el.Value.(item[K, V]).Object, true
}

// Peek returns an item without touching its recency.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.items[k]
	if !found {
		var v V
		return v, false
	}
	return el.Value.(item[K, V]).Object, true
}

// Remove an item from the cache. Does nothing if the key is not in the cache.
// The eviction callback is not invoked for explicit removals.
func (c *Cache[K, V]) Remove(k K) {
	c.mu.Lock()
	if el, found := c.items[k]; found {
		c.removeElement(el)
	}
	c.mu.Unlock()
}

func (c *Cache[K, V]) removeElement(el *list.Element) item[K, V] {
	it := c.order.Remove(el).(item[K, V])
	delete(c.items, it.Key)
	return it
}

// Sets an (optional) function that is called with the key and value when an
// item is evicted to make room for another. Set to nil to disable.
func (c *Cache[K, V]) OnEvicted(f func(K, V)) {
	c.mu.Lock()
	c.onEvicted = f
	c.mu.Unlock()
}

// Copies all items in the cache into a new map and returns it.
func (c *Cache[K, V]) Items() map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := make(map[K]V, len(c.items))
	for k, el := range c.items {
		m[k] = el.Value.(item[K, V]).Object
	}
	return m
}

// Returns the number of items in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	n := len(c.items)
	c.mu.Unlock()
	return n
}

// Capacity returns the maximum number of items the cache holds.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Delete all items from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.mu.Unlock()
}

// Return a new cache holding at most capacity items. If capacity is less than
// one, DefaultCapacity is used.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Return a new cache seeded with items. Seeding happens in unspecified order,
// so if len(items) exceeds capacity which items survive is unspecified.
//
// The map is copied; the caller keeps ownership of it.
func NewFrom[K comparable, V any](capacity int, items map[K]V) *Cache[K, V] {
	c := New[K, V](capacity)
	for k, v := range items {
		c.set(k, v)
	}
	return c
}
