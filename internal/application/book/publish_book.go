package book

import (
	"context"
	"time"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/infrastructure/event"
	"github.com/xiebiao/rebook/pkg/logger"
)

// PublishBookUseCase 图书入库用例（图书管理员）
// 流程：领域服务入库 → 删除目录缓存 → 发布book.published事件
type PublishBookUseCase struct {
	bookService book.Service
	cache       CatalogCache
	events      event.Publisher
}

// NewPublishBookUseCase 创建入库用例
func NewPublishBookUseCase(bookService book.Service, cache CatalogCache, events event.Publisher) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, cache: cache, events: events}
}

// PublishBookRequest 入库请求
type PublishBookRequest struct {
	Title       string
	Author      string
	CategoryID  uint
	Total       int
	Cover       string
	PublisherID uint // 当前登录的管理员
}

// Execute 执行入库
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookItem, error) {
	b, err := uc.bookService.PublishBook(ctx, book.PublishParams{
		Title:      req.Title,
		AuthorName: req.Author,
		CategoryID: req.CategoryID,
		Total:      req.Total,
		Cover:      req.Cover,
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache)

	// 事件是通知性质的，发布失败只记日志
	err = uc.events.BookPublished(ctx, event.BookPublished{
		BookID:      b.ID,
		Title:       b.Title,
		Author:      b.Author.Name,
		Total:       b.Total,
		PublishedBy: req.PublisherID,
		PublishedAt: time.Now(),
	})
	if err != nil {
		logger.Get().Warn().Err(err).Uint("book_id", b.ID).Msg("publish book.published failed")
	}

	item := toBookItem(b)
	return &item, nil
}
