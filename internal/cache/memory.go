package cache

import (
	"context"
	"sync"
)

type node struct {
	key   string
	entry *Entry
	prev  *node
	next  *node
}

// Memory is an in-memory Cache. With maxEntries <= 0 it grows without bound
// for the life of the session; with a cap it evicts least-recently-used
// entries once full.
type Memory struct {
	mu         sync.RWMutex
	items      map[string]*node
	head       *node
	tail       *node
	maxEntries int
}

// NewMemory creates an in-memory cache. maxEntries <= 0 means unbounded.
func NewMemory(maxEntries int) *Memory {
	return &Memory{
		items:      make(map[string]*node),
		maxEntries: maxEntries,
	}
}

func (c *Memory) Get(ctx context.Context, url string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[url]
	if !ok {
		return nil, false
	}
	c.moveToFront(n)
	return n.entry, true
}

func (c *Memory) Set(ctx context.Context, url string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[url]; ok {
		n.entry = entry
		c.moveToFront(n)
		return
	}

	n := &node{key: url, entry: entry}
	c.items[url] = n
	c.addToFront(n)

	if c.maxEntries > 0 && len(c.items) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *Memory) Delete(ctx context.Context, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[url]
	if !ok {
		return
	}
	c.remove(n)
	delete(c.items, url)
}

// Len returns the number of cached entries.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Memory) addToFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Memory) moveToFront(n *node) {
	if c.head == n {
		return
	}
	c.remove(n)
	c.addToFront(n)
}

func (c *Memory) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (c *Memory) evictOldest() {
	if c.tail == nil {
		return
	}
	oldest := c.tail
	c.remove(oldest)
	delete(c.items, oldest.key)
}
