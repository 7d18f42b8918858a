package redis

import (
	"math"
	"net"
	"strconv"
	"time"

	"thordash/cache"

	"github.com/gomodule/redigo/redis"
)

var _ cache.Store = (*Cache)(nil)

type Cache struct {
	pool *redis.Pool
}

func NewPool(host string, port int, password string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			options := []redis.DialOption{redis.DialConnectTimeout(5 * time.Second)}
			if password != "" {
				options = append(options, redis.DialPassword(password))
			}
			return redis.Dial("tcp", redisAddress(host, port), options...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func New(pool *redis.Pool) *Cache {
	return &Cache{pool: pool}
}

func (c *Cache) Name() string { return cache.BackendRedis }

func (c *Cache) Set(key *cache.Key, value string, expiryInSecs float64) error {
	if value == "" {
		return cache.ErrorInvalidValue
	}

	cKey, err := key.Key()
	if err != nil {
		return err
	}

	redisConn := c.pool.Get()
	defer redisConn.Close()

	if expiryInSecs == 0 {
		_, err = redisConn.Do("SET", cKey, value)
	} else {
		// EX takes whole seconds and rejects 0.
		_, err = redisConn.Do("SET", cKey, value, "EX", int64(math.Ceil(expiryInSecs)))
	}
	return err
}

func (c *Cache) GetIfExists(key *cache.Key) (string, bool, error) {
	cKey, err := key.Key()
	if err != nil {
		return "", false, err
	}

	redisConn := c.pool.Get()
	defer redisConn.Close()

	value, err := redis.String(redisConn.Do("GET", cKey))
	if err == redis.ErrNil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Close releases the pooled connections.
func (c *Cache) Close() error {
	return c.pool.Close()
}

func redisAddress(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
