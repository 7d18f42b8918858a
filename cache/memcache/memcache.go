package memcache

import (
	"thordash/cache"

	"github.com/bradfitz/gomemcache/memcache"
)

var _ cache.Store = (*Cache)(nil)

type client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

type Cache struct {
	client client
}

func New(servers ...string) *Cache {
	return &Cache{client: memcache.New(servers...)}
}

func (c *Cache) Name() string { return cache.BackendMemcache }

func (c *Cache) Set(key *cache.Key, value string, expiryInSecs float64) error {
	if value == "" {
		return cache.ErrorInvalidValue
	}

	cKey, err := key.Key()
	if err != nil {
		return err
	}
	return c.client.Set(&memcache.Item{Key: cKey, Value: []byte(value), Expiration: int32(expiryInSecs)})
}

func (c *Cache) GetIfExists(key *cache.Key) (string, bool, error) {
	cKey, err := key.Key()
	if err != nil {
		return "", false, err
	}

	item, err := c.client.Get(cKey)
	if err == memcache.ErrCacheMiss {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(item.Value), true, nil
}
