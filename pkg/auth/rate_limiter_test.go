package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter(t *testing.T) {
	l := NewKeyedRateLimiter(3)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst exhausted for this key")

	// Keys have independent buckets
	assert.True(t, l.Allow("b"))
}
