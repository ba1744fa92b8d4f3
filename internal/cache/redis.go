package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Read-model cache keys
const (
	PendingInProgressKey = "performance:pending-inprogress"
	AllEntriesKey        = "performance:all"
)

const readModelTTL = 30 * time.Second

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully: when
// redis is unreachable every helper becomes a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// The auth cache is keyed by account id and stores a digest of the password
// that last passed bcrypt. Keying by id (rather than id+password) lets a
// password change evict the stale entry immediately.
func authKey(accountID string) string {
	return "auth:" + accountID
}

func passwordDigest(password string) string {
	h := sha256.Sum256([]byte(password))
	return hex.EncodeToString(h[:])
}

// GetCachedAuth reports whether the given password matches the cached digest
// for this account.
func GetCachedAuth(ctx context.Context, accountID, password string) bool {
	if client == nil {
		return false
	}
	digest, err := client.Get(ctx, authKey(accountID)).Result()
	if err != nil {
		return false
	}
	return digest == passwordDigest(password)
}

// CacheAuth caches a verified password digest for 15 minutes.
func CacheAuth(ctx context.Context, accountID, password string) {
	if client == nil {
		return
	}
	client.Set(ctx, authKey(accountID), passwordDigest(password), 15*time.Minute)
}

// InvalidateAuth evicts the cached digest, called on password change.
func InvalidateAuth(ctx context.Context, accountID string) {
	if client == nil {
		return
	}
	client.Del(ctx, authKey(accountID))
}

// GetReadModel fetches a cached read-model payload (raw JSON).
func GetReadModel(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetReadModel caches a read-model payload for a short TTL.
func SetReadModel(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, readModelTTL)
}

// InvalidateEntryCaches drops the cross-employee read models after any entry
// write.
func InvalidateEntryCaches(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, PendingInProgressKey, AllEntriesKey)
}
