package cache

import (
	"errors"
	"fmt"
)

type Key struct {
	// Prefix - Helps better grouping and searching
	// i.e dataset
	Prefix string
	// Suffix - optional
	Suffix string
}

var (
	ErrorInvalidPrefix = errors.New("invalid key prefix")
	ErrorInvalidKey    = errors.New("invalid cache key")
	ErrorInvalidValue  = errors.New("empty cache key value")
)

const keySeparator = "::"

func NewKey(prefix string, suffix string) (*Key, error) {
	if prefix == "" {
		return nil, ErrorInvalidPrefix
	}
	return &Key{Prefix: prefix, Suffix: suffix}, nil
}

func (key *Key) Key() (string, error) {
	if key == nil {
		return "", ErrorInvalidKey
	}
	if key.Prefix == "" {
		return "", ErrorInvalidPrefix
	}
	if key.Suffix == "" {
		return key.Prefix, nil
	}
	// key: i.e, dataset::overview
	return fmt.Sprintf("%s%s%s", key.Prefix, keySeparator, key.Suffix), nil
}

// Store is a string cache with per entry expiry. Zero expiry keeps the entry until evicted.
type Store interface {
	Set(key *Key, value string, expiryInSecs float64) error
	// GetIfExists returns false without error on a miss.
	GetIfExists(key *Key) (string, bool, error)
	Name() string
}

const (
	BackendRedis    = "redis"
	BackendMemcache = "memcache"
	BackendMemory   = "memory"
)
