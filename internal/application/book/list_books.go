package book

import (
	"context"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/pkg/logger"
)

// ListBooksUseCase 图书列表查询用例
// 1. 不分页：客户端拿全量列表做本地搜索和筛选
// 2. sort=latest按入库时间倒序（首页"最新上架"）
// 3. 先查缓存，未命中查库再回填（Cache-Aside）
type ListBooksUseCase struct {
	bookService book.Service
	cache       CatalogCache
}

// NewListBooksUseCase 创建列表查询用例，cache可以为nil
func NewListBooksUseCase(bookService book.Service, cache CatalogCache) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, cache: cache}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Sort string // "" | latest
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]BookItem, error) {
	sort, err := book.ParseSort(req.Sort)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	if uc.cache != nil {
		books, hit, err := uc.cache.GetBooks(ctx, sort)
		if err != nil {
			log.Warn().Err(err).Msg("read books cache failed")
		} else if hit {
			return toBookItems(books), nil
		}
	}

	books, err := uc.bookService.ListBooks(ctx, book.ListParams{Sort: sort})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetBooks(ctx, sort, books); err != nil {
			log.Warn().Err(err).Msg("write books cache failed")
		}
	}
	return toBookItems(books), nil
}

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookItem, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	item := toBookItem(b)
	return &item, nil
}
