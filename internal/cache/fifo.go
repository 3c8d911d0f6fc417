// Package cache holds the bounded result cache used by stemmer instances.
package cache

// FIFO is a bounded string map that evicts the oldest inserted key when it is
// full. Reads never change eviction order, which is what separates it from an
// LRU. Insertion order lives in a ring of keys next to the lookup map.
//
// A FIFO is not safe for concurrent use.
type FIFO struct {
	capacity int
	items    map[string]string
	ring     []string
	head     int
	evicted  uint64

	journal   []change
	recording bool
}

// change records one Add so that it can be reverted.
type change struct {
	key       string
	prev      string
	replaced  bool
	victim    string
	victimVal string
	evicted   bool
}

// NewFIFO returns a cache holding at most capacity entries. A capacity of
// zero or less yields a cache that stores nothing.
func NewFIFO(capacity int) *FIFO {
	if capacity < 0 {
		capacity = 0
	}
	return &FIFO{
		capacity: capacity,
		items:    make(map[string]string),
		ring:     make([]string, capacity),
	}
}

// Get returns the value stored for key.
func (c *FIFO) Get(key string) (string, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Contains reports whether key is cached.
func (c *FIFO) Contains(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Add stores value under key and reports whether an older entry was evicted
// to make room. Overwriting a present key keeps its original position.
func (c *FIFO) Add(key, value string) bool {
	if c.capacity == 0 {
		return false
	}
	if prev, ok := c.items[key]; ok {
		c.record(change{key: key, prev: prev, replaced: true})
		c.items[key] = value
		return false
	}

	ch := change{key: key}
	if len(c.items) == c.capacity {
		ch.victim = c.ring[c.head]
		ch.victimVal = c.items[ch.victim]
		ch.evicted = true
		delete(c.items, ch.victim)
		c.ring[c.head] = key
		c.head = (c.head + 1) % c.capacity
		c.evicted++
	} else {
		c.ring[(c.head+len(c.items))%c.capacity] = key
	}
	c.items[key] = value
	c.record(ch)
	return ch.evicted
}

func (c *FIFO) record(ch change) {
	if c.recording {
		c.journal = append(c.journal, ch)
	}
}

// Begin starts recording changes so that Rollback can undo them. A second
// Begin discards whatever was recorded before it.
func (c *FIFO) Begin() {
	c.journal = c.journal[:0]
	c.recording = true
}

// Commit keeps every change made since Begin.
func (c *FIFO) Commit() {
	c.journal = c.journal[:0]
	c.recording = false
}

// Rollback undoes every Add since Begin, restoring evicted entries to their
// original positions.
func (c *FIFO) Rollback() {
	for i := len(c.journal) - 1; i >= 0; i-- {
		ch := c.journal[i]
		switch {
		case ch.replaced:
			c.items[ch.key] = ch.prev
		case ch.evicted:
			c.head = (c.head - 1 + c.capacity) % c.capacity
			delete(c.items, ch.key)
			c.ring[c.head] = ch.victim
			c.items[ch.victim] = ch.victimVal
			c.evicted--
		default:
			delete(c.items, ch.key)
			c.ring[(c.head+len(c.items))%c.capacity] = ""
		}
	}
	c.journal = c.journal[:0]
	c.recording = false
}

// Keys returns the cached keys, oldest first.
func (c *FIFO) Keys() []string {
	n := len(c.items)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, c.ring[(c.head+i)%c.capacity])
	}
	return keys
}

// Len returns the number of cached entries.
func (c *FIFO) Len() int { return len(c.items) }

// Cap returns the maximum number of entries.
func (c *FIFO) Cap() int { return c.capacity }

// Evictions returns how many entries were dropped to make room since the
// cache was created or last cleared.
func (c *FIFO) Evictions() uint64 { return c.evicted }

// Clear drops every entry.
func (c *FIFO) Clear() {
	clear(c.items)
	clear(c.ring)
	c.head = 0
	c.evicted = 0
	c.journal = c.journal[:0]
}
