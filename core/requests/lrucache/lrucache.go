// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
of byte slices with per-entry expiry.

The cache evicts the least recently used entry when it reaches capacity, and treats
entries older than their TTL as absent. When created with compression enabled via
[New], values are stored zstd-compressed whenever that saves space and are
transparently decompressed by [Cache.Get].
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size      int                      // Maximum capacity of the cache (number of entries)
	ttl       time.Duration            // Lifetime of an entry; zero means entries never expire
	evictList *list.List               // A doubly-linked list to manage the eviction order
	items     map[string]*list.Element // Maps keys to their corresponding linked-list elements
	lock      sync.Mutex               // For thread-safe operations
	zstdEnc   *zstd.Encoder            // Reusable zstd encoder; nil when compression is disabled
	zstdDec   *zstd.Decoder            // Reusable zstd decoder; nil when compression is disabled

	now func() time.Time
}

// entry holds the key/value pair stored in each linked-list element.
type entry struct {
	key        string
	value      []byte
	compressed bool
	expiresAt  time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a new cache holding at most size entries, each valid for ttl.
//
// A zero ttl disables expiry. If compress is true, values are stored
// zstd-compressed when this reduces their size.
//
// It returns an error if size is not a positive integer.
func New(size int, ttl time.Duration, compress bool, opts ...Option) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		ttl:       ttl,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add adds or updates the value for key and resets its expiry.
//
// If the key exists, it becomes the most recently used.
// If the cache is at capacity, the least recently used item is evicted.
// Add reports whether an eviction occurred.
func (c *Cache) Add(key string, value []byte) bool {
	// Compress before acquiring the lock; EncodeAll is safe for concurrent use.
	stored, compressed := c.encode(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	expiresAt := c.expiry()

	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)

		ent := elem.Value.(*entry)
		ent.value = stored
		ent.compressed = compressed
		ent.expiresAt = expiresAt

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
//
// Expired entries are removed and reported as missing.
// The returned slice is a copy and may be modified by the caller.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent := elem.Value.(*entry)

	if c.expired(ent) {
		c.removeElement(elem)
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(elem)

	// Copy fields needed for decompression and release the lock early.
	stored, compressed := ent.value, ent.compressed

	c.lock.Unlock()

	return c.decode(stored, compressed)
}

// Remove deletes the entry associated with key from the cache.
//
// Remove reports whether the key was present and removed.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)

		return true
	}

	return false
}

// Purge removes every entry and returns how many there were, counting
// expired entries not yet looked up.
func (c *Cache) Purge() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	n := c.evictList.Len()

	c.evictList.Init()
	clear(c.items)

	return n
}

// Keys returns the keys of unexpired entries, from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))

	// The back of the list is the oldest entry.
	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		ent := elem.Value.(*entry)
		if !c.expired(ent) {
			keys = append(keys, ent.key)
		}
	}

	return keys
}

// count returns the number of stored entries, including expired entries that
// have not been looked up since they expired.
func (c *Cache) count() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *Cache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}

	return c.now().Add(c.ttl)
}

func (c *Cache) expired(ent *entry) bool {
	return !ent.expiresAt.IsZero() && !c.now().Before(ent.expiresAt)
}

func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
}

// encode compresses value when enabled and worthwhile.
// Uncompressed values are copied so callers cannot mutate the cache.
func (c *Cache) encode(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return []byte{}, false
	}

	if c.zstdEnc != nil {
		compressed := c.zstdEnc.EncodeAll(value, nil)
		if len(compressed) < len(value) {
			return compressed, true
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	return copied, false
}

// decode returns the caller's copy of a stored value.
// A value that fails to decompress is considered unavailable.
func (c *Cache) decode(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		copied := make([]byte, len(stored))
		copy(copied, stored)

		return copied, true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
