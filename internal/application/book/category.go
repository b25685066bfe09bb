package book

import (
	"context"

	"github.com/xiebiao/rebook/internal/domain/category"
	"github.com/xiebiao/rebook/pkg/logger"
)

// ListCategoriesUseCase 分类列表用例（带缓存）
type ListCategoriesUseCase struct {
	categoryService category.Service
	cache           CatalogCache
}

// NewListCategoriesUseCase 创建分类列表用例，cache可以为nil
func NewListCategoriesUseCase(categoryService category.Service, cache CatalogCache) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryService: categoryService, cache: cache}
}

// Execute 执行查询
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryItem, error) {
	log := logger.Get()
	if uc.cache != nil {
		list, hit, err := uc.cache.GetCategories(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("read categories cache failed")
		} else if hit {
			return toCategoryItems(list), nil
		}
	}

	list, err := uc.categoryService.List(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetCategories(ctx, list); err != nil {
			log.Warn().Err(err).Msg("write categories cache failed")
		}
	}
	return toCategoryItems(list), nil
}

// CreateCategoryUseCase 新建分类用例（图书管理员）
type CreateCategoryUseCase struct {
	categoryService category.Service
	cache           CatalogCache
}

// NewCreateCategoryUseCase 创建新建分类用例
func NewCreateCategoryUseCase(categoryService category.Service, cache CatalogCache) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categoryService: categoryService, cache: cache}
}

// Execute 执行新建
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, name string) (*CategoryItem, error) {
	c, err := uc.categoryService.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache)
	return &CategoryItem{ID: c.ID, Name: c.Name}, nil
}
