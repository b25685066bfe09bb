package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
)

// CatalogCache 图书/分类列表缓存（Cache-Aside）
//
// 客户端每秒轮询一次全量列表，缓存挡在MySQL前面。
// 写操作（入库、删除、新建分类）后删除缓存，不做更新，避免并发写导致脏数据。
//
// Key：
//   - rebook:catalog:books:{sort}
//   - rebook:catalog:categories
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// GetBooks 读取图书列表缓存，未命中返回(nil, false, nil)
func (c *CatalogCache) GetBooks(ctx context.Context, sort book.Sort) ([]*book.Book, bool, error) {
	var books []*book.Book
	hit, err := c.get(ctx, booksKey(sort), &books)
	return books, hit, err
}

// SetBooks 写入图书列表缓存
func (c *CatalogCache) SetBooks(ctx context.Context, sort book.Sort, books []*book.Book) error {
	return c.set(ctx, booksKey(sort), books)
}

// GetCategories 读取分类列表缓存
func (c *CatalogCache) GetCategories(ctx context.Context) ([]*category.Category, bool, error) {
	var list []*category.Category
	hit, err := c.get(ctx, categoriesKey, &list)
	return list, hit, err
}

// SetCategories 写入分类列表缓存
func (c *CatalogCache) SetCategories(ctx context.Context, list []*category.Category) error {
	return c.set(ctx, categoriesKey, list)
}

// Invalidate 删除所有目录缓存
// 分类改名会影响图书列表里的分类名，所以一起删
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	keys := []string{categoriesKey, booksKey(book.SortDefault), booksKey(book.SortLatest)}
	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func (c *CatalogCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("获取缓存失败: %w", err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("反序列化失败: %w", err)
	}
	return true, nil
}

func (c *CatalogCache) set(ctx context.Context, key string, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

var categoriesKey = key("catalog", "categories")

func booksKey(sort book.Sort) string {
	if sort == book.SortDefault {
		return key("catalog", "books", "default")
	}
	return key("catalog", "books", string(sort))
}
