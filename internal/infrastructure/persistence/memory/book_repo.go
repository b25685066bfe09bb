package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
)

type authorRow struct {
	id   uint
	name string
}

type bookRow struct {
	id         uint
	title      string
	authorID   uint
	categoryID uint
	available  int
	total      int
	cover      string
	createdAt  time.Time
	updatedAt  time.Time
	deleted    bool
}

type bookRepository struct {
	store *Store
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository(store *Store) book.Repository {
	return &bookRepository{store: store}
}

func (r *bookRepository) Create(_ context.Context, b *book.Book) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Category.ID != 0 {
		if _, ok := s.categories[b.Category.ID]; !ok {
			return category.ErrCategoryNotFound
		}
	}

	author, err := s.resolveAuthor(b.Author)
	if err != nil {
		return err
	}

	s.nextBookID++
	now := s.now()
	s.books[s.nextBookID] = bookRow{
		id:         s.nextBookID,
		title:      b.Title,
		authorID:   author.id,
		categoryID: b.Category.ID,
		available:  b.Available,
		total:      b.Total,
		cover:      b.Cover,
		createdAt:  now,
		updatedAt:  now,
	}

	b.ID = s.nextBookID
	b.Author = book.Author{ID: author.id, Name: author.name}
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (r *bookRepository) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.books[id]
	if !ok || row.deleted {
		return nil, book.ErrBookNotFound
	}
	return r.store.bookEntity(row), nil
}

func (r *bookRepository) List(_ context.Context, params book.ListParams) ([]*book.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := make([]bookRow, 0, len(r.store.books))
	for _, row := range r.store.books {
		if !row.deleted {
			rows = append(rows, row)
		}
	}

	switch params.Sort {
	case book.SortLatest:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].createdAt.Equal(rows[j].createdAt) {
				return rows[i].id > rows[j].id
			}
			return rows[i].createdAt.After(rows[j].createdAt)
		})
	default:
		sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	}

	books := make([]*book.Book, len(rows))
	for i, row := range rows {
		books[i] = r.store.bookEntity(row)
	}
	return books, nil
}

func (r *bookRepository) Delete(_ context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.books[id]
	if !ok || row.deleted {
		return book.ErrBookNotFound
	}
	row.deleted = true
	row.updatedAt = s.now()
	s.books[id] = row
	return nil
}

// resolveAuthor 按ID取作者，ID为0时按名字查找或创建（调用方持有写锁）
func (s *Store) resolveAuthor(a book.Author) (authorRow, error) {
	if a.ID != 0 {
		row, ok := s.authors[a.ID]
		if !ok {
			return authorRow{}, book.ErrInvalidAuthor
		}
		return row, nil
	}

	name := strings.TrimSpace(a.Name)
	for _, row := range s.authors {
		if strings.EqualFold(row.name, name) {
			return row, nil
		}
	}

	s.nextAuthorID++
	row := authorRow{id: s.nextAuthorID, name: name}
	s.authors[row.id] = row
	return row, nil
}

// bookEntity 组装图书实体（调用方持有读锁）
func (s *Store) bookEntity(row bookRow) *book.Book {
	b := &book.Book{
		ID:        row.id,
		Title:     row.title,
		Available: row.available,
		Total:     row.total,
		Cover:     row.cover,
		CreatedAt: row.createdAt,
		UpdatedAt: row.updatedAt,
	}
	if a, ok := s.authors[row.authorID]; ok {
		b.Author = book.Author{ID: a.id, Name: a.name}
	}
	if c, ok := s.categories[row.categoryID]; ok {
		b.Category = book.CategoryRef{ID: c.id, Name: c.name}
	}
	return b
}
