package book

import (
	"context"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
	"github.com/xiebiao/rebook/pkg/logger"
)

// CatalogCache 目录列表缓存（Redis实现），nil表示不使用缓存
type CatalogCache interface {
	GetBooks(ctx context.Context, sort book.Sort) ([]*book.Book, bool, error)
	SetBooks(ctx context.Context, sort book.Sort, books []*book.Book) error
	GetCategories(ctx context.Context) ([]*category.Category, bool, error)
	SetCategories(ctx context.Context, list []*category.Category) error
	Invalidate(ctx context.Context) error
}

// invalidate 写操作后删除缓存
// 缓存故障不影响写操作本身，最坏情况是客户端在TTL内看到旧列表
func invalidate(ctx context.Context, cache CatalogCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("invalidate catalog cache failed")
	}
}
