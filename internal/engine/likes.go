package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// likeCache remembers recent (creature, liker) pairs so repeated likes are rejected
// without opening a transaction. The creature_likes table stays the source of truth.
type likeCache struct {
	lru *expirable.LRU[string, struct{}]
}

func newLikeCache(size int, ttl time.Duration) *likeCache {
	if size <= 0 {
		size = DefaultLikeCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultLikeCacheTTL
	}
	return &likeCache{lru: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func likeKey(creatureID int64, likerID string) string {
	return fmt.Sprintf("v%s:%d:%s", LikeCacheSchemaVersion, creatureID, likerID)
}

func (c *likeCache) Seen(creatureID int64, likerID string) bool {
	_, ok := c.lru.Get(likeKey(creatureID, likerID))
	return ok
}

func (c *likeCache) Remember(creatureID int64, likerID string) {
	c.lru.Add(likeKey(creatureID, likerID), struct{}{})
}

// Forget drops every cached like for a creature that left the exhibit
func (c *likeCache) Forget(creatureID int64) {
	prefix := fmt.Sprintf("v%s:%d:", LikeCacheSchemaVersion, creatureID)
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

// Len reports the number of cached likes
func (c *likeCache) Len() int {
	return c.lru.Len()
}
