package book

import (
	"context"

	"github.com/xiebiao/rebook/internal/domain/category"
)

// Service 图书领域服务
type Service interface {
	// PublishBook 图书入库（图书管理员）
	// 业务规则：
	// - 书名、作者不能为空
	// - 馆藏数量>=0，新书可借数量=馆藏数量
	// - categoryID非0时分类必须存在
	PublishBook(ctx context.Context, req PublishParams) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 查询全部图书
	ListBooks(ctx context.Context, params ListParams) ([]*Book, error)

	// DeleteBook 删除图书（权限由接口层的角色中间件保证）
	DeleteBook(ctx context.Context, id uint) error
}

// PublishParams 入库参数
type PublishParams struct {
	Title      string
	AuthorName string
	CategoryID uint
	Total      int
	Cover      string
}

type service struct {
	repo       Repository
	categories category.Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository, categories category.Repository) Service {
	return &service{repo: repo, categories: categories}
}

func (s *service) PublishBook(ctx context.Context, req PublishParams) (*Book, error) {
	var ref CategoryRef
	if req.CategoryID != 0 {
		c, err := s.categories.FindByID(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		ref = CategoryRef{ID: c.ID, Name: c.Name}
	}

	b, err := NewBook(req.Title, Author{Name: req.AuthorName}, ref, req.Total, req.Cover)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, error) {
	return s.repo.List(ctx, params)
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
