package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 创建分类，名称重复返回ErrCategoryDuplicate
	Create(ctx context.Context, c *Category) error

	// FindByID 不存在返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// List 按ID升序返回全部分类
	List(ctx context.Context) ([]*Category, error)
}
