package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
)

// 需要真实的Redis：REBOOK_TEST_REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/persistence/redis
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REBOOK_TEST_REDIS_ADDR未设置，跳过Redis测试")
	}

	// 使用15号库，测试结束清空
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newTestClient(t))

	blacklisted, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
	blacklisted, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// 已过期的Token不用进黑名单
	require.NoError(t, store.AddToBlacklist(ctx, "token-b", 0))
	blacklisted, err = store.IsInBlacklist(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestSessionStore_Session(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewSessionStore(client)

	require.NoError(t, store.SaveSession(ctx, 7, map[string]interface{}{"auth": "Reader"}, time.Minute))
	data, err := client.HGetAll(ctx, sessionKey(7)).Result()
	require.NoError(t, err)
	assert.Equal(t, "Reader", data["auth"])

	require.NoError(t, store.DeleteSession(ctx, 7))
	n, err := client.Exists(ctx, sessionKey(7)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalogCache(t *testing.T) {
	ctx := context.Background()
	cache := NewCatalogCache(newTestClient(t), time.Minute)

	_, hit, err := cache.GetBooks(ctx, book.SortDefault)
	require.NoError(t, err)
	assert.False(t, hit)

	books := []*book.Book{{ID: 1, Title: "Blink", Author: book.Author{ID: 2, Name: "Malcolm Gladwell"}, Total: 1}}
	require.NoError(t, cache.SetBooks(ctx, book.SortDefault, books))
	require.NoError(t, cache.SetCategories(ctx, []*category.Category{{ID: 1, Name: "Psychology"}}))

	got, hit, err := cache.GetBooks(ctx, book.SortDefault)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "Malcolm Gladwell", got[0].Author.Name)

	require.NoError(t, cache.Invalidate(ctx))
	_, hit, err = cache.GetCategories(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "rebook:session:42", sessionKey(42))
	assert.Equal(t, "rebook:catalog:books:default", booksKey(book.SortDefault))
	assert.Equal(t, "rebook:catalog:books:latest", booksKey(book.SortLatest))
	assert.Equal(t, "rebook:catalog:categories", categoriesKey)

	k := blacklistKey("header.payload.signature")
	assert.Len(t, k, len("rebook:blacklist:")+64)
	assert.NotContains(t, k, "payload")
	assert.Equal(t, k, blacklistKey("header.payload.signature"))
	assert.NotEqual(t, k, blacklistKey("header.payload.other"))
}

func TestOptions(t *testing.T) {
	opts := options(config.RedisConfig{Host: "cache", Port: 6380, DB: 2, PoolSize: 8, DialTimeout: time.Second})
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 8, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
