package book

import (
	"context"
	"time"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/infrastructure/event"
	"github.com/xiebiao/rebook/pkg/logger"
	"github.com/xiebiao/rebook/pkg/metrics"
)

// DeleteBookUseCase 删除图书用例（图书管理员）
// 软删除后删除目录缓存，下一次轮询就拿不到这本书
type DeleteBookUseCase struct {
	bookService book.Service
	cache       CatalogCache
	events      event.Publisher
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache CatalogCache, events event.Publisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, cache: cache, events: events}
}

// DeleteBookRequest 删除请求
type DeleteBookRequest struct {
	BookID    uint
	DeletedBy uint
}

// Execute 执行删除，图书不存在返回ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, req DeleteBookRequest) error {
	// 先查出书名，事件里要用
	b, err := uc.bookService.GetBook(ctx, req.BookID)
	if err != nil {
		return err
	}

	if err := uc.bookService.DeleteBook(ctx, req.BookID); err != nil {
		return err
	}
	metrics.IncBooksDeleted()

	invalidate(ctx, uc.cache)

	err = uc.events.BookDeleted(ctx, event.BookDeleted{
		BookID:    b.ID,
		Title:     b.Title,
		DeletedBy: req.DeletedBy,
		DeletedAt: time.Now(),
	})
	if err != nil {
		logger.Get().Warn().Err(err).Uint("book_id", b.ID).Msg("publish book.deleted failed")
	}
	return nil
}
