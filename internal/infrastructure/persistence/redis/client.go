// Package redis Redis实现：Token黑名单、会话、目录缓存
//
// 所有key以"rebook:"开头，便于和同一实例上的其它应用区分。
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/pkg/logger"
)

const keyPrefix = "rebook"

// NewClient 连接Redis，Ping不通直接返回错误（redis.enabled=true时不降级到内存）
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(options(cfg))

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败(%s): %w", cfg.Addr(), err)
	}

	logger.Get().Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Int("pool_size", cfg.PoolSize).Msg("redis connected")
	return client, nil
}

func options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// key rebook:<part>:<part>...
func key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

// digest Token很长，key里只放摘要
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
