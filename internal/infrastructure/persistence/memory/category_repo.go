package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/rebook/internal/domain/category"
)

type categoryRow struct {
	id        uint
	name      string
	createdAt time.Time
}

type categoryRepository struct {
	store *Store
}

// NewCategoryRepository 创建内存分类仓储
func NewCategoryRepository(store *Store) category.Repository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) Create(_ context.Context, c *category.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.categories {
		if strings.EqualFold(row.name, c.Name) {
			return category.ErrCategoryDuplicate
		}
	}

	s.nextCategoryID++
	now := s.now()
	s.categories[s.nextCategoryID] = categoryRow{id: s.nextCategoryID, name: c.Name, createdAt: now}

	c.ID = s.nextCategoryID
	c.CreatedAt = now
	return nil
}

func (r *categoryRepository) FindByID(_ context.Context, id uint) (*category.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return &category.Category{ID: row.id, Name: row.name, CreatedAt: row.createdAt}, nil
}

func (r *categoryRepository) List(_ context.Context) ([]*category.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	list := make([]*category.Category, 0, len(r.store.categories))
	for _, row := range r.store.categories {
		list = append(list, &category.Category{ID: row.id, Name: row.name, CreatedAt: row.createdAt})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
