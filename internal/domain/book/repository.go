package book

import (
	"context"
)

// Repository 图书仓储接口
// domain层定义，infrastructure层（mysql、memory）实现
type Repository interface {
	// Create 创建图书
	// Author.ID为0时按Author.Name查找作者，不存在则创建；成功后回填ID和作者
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书，不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// List 查询全部图书（不分页），带作者和分类
	List(ctx context.Context, params ListParams) ([]*Book, error)

	// Delete 删除图书（软删除），不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error
}

// Sort 列表排序方式
type Sort string

const (
	// SortDefault 按ID升序（入库顺序）
	SortDefault Sort = ""
	// SortLatest 最新入库在前
	SortLatest Sort = "latest"
)

// ParseSort 解析?sort=参数
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortDefault, SortLatest:
		return Sort(s), nil
	}
	return SortDefault, ErrInvalidSort
}

// ListParams 列表查询参数
type ListParams struct {
	Sort Sort
}
