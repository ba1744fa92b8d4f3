package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordDigest(t *testing.T) {
	assert.Equal(t, passwordDigest("secret123"), passwordDigest("secret123"))
	assert.NotEqual(t, passwordDigest("secret123"), passwordDigest("changed456"),
		"a changed password must never match the old digest")
	assert.Equal(t, "auth:EMP001", authKey("EMP001"))
}

// Without a live redis every helper degrades to a no-op; logins fall back to
// bcrypt and nothing panics.
func TestHelpersWithoutRedis(t *testing.T) {
	ctx := context.Background()

	assert.False(t, GetCachedAuth(ctx, "EMP001", "secret123"))
	CacheAuth(ctx, "EMP001", "secret123")
	assert.False(t, GetCachedAuth(ctx, "EMP001", "secret123"))
	InvalidateAuth(ctx, "EMP001")

	data, ok := GetReadModel(ctx, AllEntriesKey)
	assert.False(t, ok)
	assert.Nil(t, data)
	SetReadModel(ctx, AllEntriesKey, []byte(`[]`))
	InvalidateEntryCaches(ctx)
}
