// Package cache holds the parsed-file cache fileStore uses to avoid
// re-parsing a source file while it stays cached.
package cache

import (
	"container/list"
	"sync"

	"github.com/drivasperez/ts-callpath/internal/parser"
)

// ParsedFiles is a thread-safe, capacity-bounded least-recently-used
// cache of parsed source files keyed by absolute path. When full,
// caching a new path evicts the least-recently-used entry first.
type ParsedFiles struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most-recently used
}

type entry struct {
	path string
	file *parser.ParsedFile
}

// NewParsedFiles creates a cache with the given capacity. Capacity <= 0
// is normalized to 1.
func NewParsedFiles(capacity int) *ParsedFiles {
	if capacity <= 0 {
		capacity = 1
	}
	return &ParsedFiles{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Load returns the cached ParsedFile for path if present, moving it to
// the front. On a miss it calls compute, caches a non-error result, and
// returns it. compute is never called while holding the cache lock, so a
// slow parse of one path doesn't block lookups of others.
func (c *ParsedFiles) Load(path string, compute func() (*parser.ParsedFile, error)) (*parser.ParsedFile, error) {
	if file, ok := c.get(path); ok {
		return file, nil
	}

	file, err := compute()
	if err != nil {
		return nil, err
	}
	c.put(path, file)
	return file, nil
}

func (c *ParsedFiles) get(path string) (*parser.ParsedFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[path]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).file, true
}

func (c *ParsedFiles) put(path string, file *parser.ParsedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		c.order.MoveToFront(el)
		el.Value.(*entry).file = file
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.order.PushFront(&entry{path: path, file: file})
	c.items[path] = el
}

// Len returns the current number of cached entries.
func (c *ParsedFiles) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear empties the cache.
func (c *ParsedFiles) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

func (c *ParsedFiles) evictLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	c.order.Remove(back)
	delete(c.items, back.Value.(*entry).path)
}
