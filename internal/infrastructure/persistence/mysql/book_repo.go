package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换（作者、分类通过Preload带出）
// 3. 入库时作者按名字查找或创建，与图书插入在同一事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := resolveAuthor(tx, b.Author)
		if err != nil {
			return err
		}

		model := &BookModel{
			Title:     b.Title,
			AuthorID:  author.ID,
			Available: b.Available,
			Total:     b.Total,
			Cover:     b.Cover,
		}
		if b.Category.ID != 0 {
			id := b.Category.ID
			model.CategoryID = &id
		}

		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			// 1452: Cannot add or update a child row: a foreign key constraint fails
			if model.CategoryID != nil && strings.Contains(err.Error(), "foreign key constraint fails") {
				return category.ErrCategoryNotFound
			}
			return apperrors.Wrap(err, "创建图书失败")
		}

		b.ID = model.ID
		b.Author = book.Author{ID: author.ID, Name: author.Name}
		b.CreatedAt = model.CreatedAt
		b.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// resolveAuthor Author.ID为0时按名字查找或创建
// INSERT ... ON DUPLICATE KEY UPDATE id=id 处理并发入库同一作者
func resolveAuthor(tx *gorm.DB, a book.Author) (*AuthorModel, error) {
	var model AuthorModel
	if a.ID != 0 {
		if err := tx.First(&model, a.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, book.ErrInvalidAuthor
			}
			return nil, apperrors.Wrap(err, "查询作者失败")
		}
		return &model, nil
	}

	name := strings.TrimSpace(a.Name)
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&AuthorModel{Name: name}).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "创建作者失败")
	}
	if err := tx.Where("name = ?", name).First(&model).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}
	return &model, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).Preload("Author").Preload("Category").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// List 查询全部图书（不分页）
// Preload避免N+1：books一次、authors一次、categories一次
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, error) {
	query := r.db.WithContext(ctx).Model(&BookModel{}).Preload("Author").Preload("Category")

	switch params.Sort {
	case book.SortLatest:
		query = query.Order("created_at DESC").Order("id DESC")
	default:
		query = query.Order("id ASC")
	}

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		Author:    book.Author{ID: model.Author.ID, Name: model.Author.Name},
		Available: model.Available,
		Total:     model.Total,
		Cover:     model.Cover,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Category != nil {
		b.Category = book.CategoryRef{ID: model.Category.ID, Name: model.Category.Name}
	}
	return b
}
