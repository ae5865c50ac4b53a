package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLikeCache_RememberAndForget(t *testing.T) {
	c := newLikeCache(16, time.Minute)

	c.Remember(1, "a")
	c.Remember(1, "b")
	c.Remember(12, "a")
	assert.True(t, c.Seen(1, "a"))
	assert.False(t, c.Seen(2, "a"))
	assert.Equal(t, 3, c.Len())

	c.Forget(1)
	assert.False(t, c.Seen(1, "a"))
	assert.False(t, c.Seen(1, "b"))
	assert.True(t, c.Seen(12, "a"), "creature 12 shares a prefix digit but not the key prefix")
}

func TestLikeCache_Defaults(t *testing.T) {
	c := newLikeCache(0, 0)
	c.Remember(5, "x")
	assert.True(t, c.Seen(5, "x"))
}

func TestCheck_UsesJSONFieldNames(t *testing.T) {
	err := check(likeRequest{LikerID: "x", CreatureID: 1})
	assert.EqualError(t, err, "validation failed: liker_id: must be a uuid")

	err = check(grantRequest{OwnerID: "00000000-0000-4000-8000-000000000000", AssetID: 1, Quantity: -1})
	assert.EqualError(t, err, "validation failed: quantity: "+"quantity must be positive")
}
