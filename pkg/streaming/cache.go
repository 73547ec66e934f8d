package streaming

import "sync"

// cacheEntry holds one previously broadcast frame, so that a client
// that reconnects (or a browser tab flipping between two recently
// seen frames) can be told "replay entry N" instead of being sent the
// same bytes over the wire again.
type cacheEntry struct {
	hash uint64
	data []byte
}

// frameCache is a small ring buffer of recently broadcast frames,
// keyed by content hash.
type frameCache struct {
	sync.RWMutex
	entries []cacheEntry
	next    int
}

func newFrameCache(size int) *frameCache {
	return &frameCache{entries: make([]cacheEntry, size)}
}

// index returns the slot holding hash, or -1 if it isn't cached.
func (c *frameCache) index(hash uint64) int {
	c.RLock()
	defer c.RUnlock()
	for i, e := range c.entries {
		if e.hash == hash {
			return i
		}
	}
	return -1
}

func (c *frameCache) add(hash uint64, data []byte) int {
	c.Lock()
	defer c.Unlock()
	idx := c.next
	c.entries[idx] = cacheEntry{hash: hash, data: data}
	c.next = (c.next + 1) % len(c.entries)
	return idx
}
