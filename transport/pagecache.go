package transport

import (
	"container/list"
	"sync"
)

// DefaultCachePages is the page capacity of a PageCache created with a zero size.
const DefaultCachePages = 256

// PageCache keeps recently fetched pages of remote files, keyed by hash.PageKey.
// The least recently used page is evicted when the cache is full. It is safe for
// concurrent use.
type PageCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	entries  map[uint64]*list.Element
}

type pageEntry struct {
	key  uint64
	data []byte
}

// NewPageCache creates a cache holding up to capacity pages.
func NewPageCache(capacity int) *PageCache {
	if capacity <= 0 {
		capacity = DefaultCachePages
	}

	return &PageCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[uint64]*list.Element, capacity),
	}
}

// Get returns the cached page for key. The returned slice must not be modified.
func (c *PageCache) Get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)

	return elem.Value.(*pageEntry).data, true //nolint:forcetypeassert
}

// Put stores a page, evicting the least recently used one if needed.
func (c *PageCache) Put(key uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*pageEntry).data = data //nolint:forcetypeassert
		c.order.MoveToFront(elem)

		return
	}

	c.entries[key] = c.order.PushFront(&pageEntry{key: key, data: data})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*pageEntry).key) //nolint:forcetypeassert
	}
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
