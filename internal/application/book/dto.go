package book

import (
	"time"

	"github.com/xiebiao/rebook/internal/domain/book"
	"github.com/xiebiao/rebook/internal/domain/category"
)

// BookItem 图书（应用层DTO）
// 列表和详情共用：客户端每次拉取全量列表后本地过滤，所以列表项要带全部筛选字段
type BookItem struct {
	ID           uint
	Title        string
	AuthorID     uint
	AuthorName   string
	CategoryID   uint // 0表示未分类
	CategoryName string
	Status       string
	Available    int
	Total        int
	Cover        string
	CreatedAt    time.Time
}

// CategoryItem 分类（应用层DTO）
type CategoryItem struct {
	ID   uint
	Name string
}

func toBookItem(b *book.Book) BookItem {
	return BookItem{
		ID:           b.ID,
		Title:        b.Title,
		AuthorID:     b.Author.ID,
		AuthorName:   b.Author.Name,
		CategoryID:   b.Category.ID,
		CategoryName: b.Category.Name,
		Status:       string(b.Status()),
		Available:    b.Available,
		Total:        b.Total,
		Cover:        b.Cover,
		CreatedAt:    b.CreatedAt,
	}
}

func toBookItems(books []*book.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = toBookItem(b)
	}
	return items
}

func toCategoryItems(list []*category.Category) []CategoryItem {
	items := make([]CategoryItem, len(list))
	for i, c := range list {
		items[i] = CategoryItem{ID: c.ID, Name: c.Name}
	}
	return items
}
