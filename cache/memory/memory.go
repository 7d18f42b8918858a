package memory

import (
	"time"

	"thordash/cache"

	lru "github.com/hashicorp/golang-lru"
)

var _ cache.Store = (*Cache)(nil)

// Cache is an in-process LRU. Entries also expire after their own ttl.
type Cache struct {
	entries *lru.Cache
	clock   func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

func New(size int) (*Cache, error) {
	return NewWithClock(size, time.Now)
}

func NewWithClock(size int, clock func() time.Time) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, clock: clock}, nil
}

func (c *Cache) Name() string { return cache.BackendMemory }

func (c *Cache) Set(key *cache.Key, value string, expiryInSecs float64) error {
	if value == "" {
		return cache.ErrorInvalidValue
	}

	cKey, err := key.Key()
	if err != nil {
		return err
	}

	e := entry{value: value}
	if expiryInSecs > 0 {
		e.expiresAt = c.clock().Add(time.Duration(expiryInSecs * float64(time.Second)))
	}
	c.entries.Add(cKey, e)
	return nil
}

func (c *Cache) GetIfExists(key *cache.Key) (string, bool, error) {
	cKey, err := key.Key()
	if err != nil {
		return "", false, err
	}

	cached, ok := c.entries.Get(cKey)
	if !ok {
		return "", false, nil
	}
	e := cached.(entry)
	if !e.expiresAt.IsZero() && !c.clock().Before(e.expiresAt) {
		c.entries.Remove(cKey)
		return "", false, nil
	}
	return e.value, true, nil
}
