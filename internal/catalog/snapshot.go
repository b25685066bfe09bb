// Package catalog 图书目录的轮询、过滤与删除
//
// 组成：
//   - Fetcher：按固定间隔拉取图书和分类，产出不可变的Snapshot
//   - Filter：纯函数，按(搜索词, 分类, 状态)从Snapshot中筛选可见图书
//   - Board：持有当前Predicate和最新State，二者任一变化就重新计算可见列表
//   - Inventory：确认后删除图书，不修改本地列表，等下一次轮询反映结果
package catalog

import (
	"time"

	"github.com/xiebiao/rebook/internal/client"
)

// Status 借阅状态
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
)

// Author 作者
type Author struct {
	ID   uint
	Name string
}

// Category 分类
type Category struct {
	ID   uint
	Name string
}

// Book 图书
// CategoryID为0表示未分类
type Book struct {
	ID           uint
	Title        string
	Author       Author
	CategoryID   uint
	CategoryName string
	Status       Status
	Available    int
	Total        int
	Cover        string
	CreatedAt    time.Time
}

// Snapshot 一次成功轮询得到的图书和分类
// 创建后不再修改，每次轮询整体替换
type Snapshot struct {
	books      []Book
	categories []Category
	fetchedAt  time.Time
	seq        uint64
}

// NewSnapshot 创建快照，复制传入的切片
func NewSnapshot(books []Book, categories []Category, fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		books:      append([]Book(nil), books...),
		categories: append([]Category(nil), categories...),
		fetchedAt:  fetchedAt,
	}
}

// Books 图书列表（副本）
func (s *Snapshot) Books() []Book {
	if s == nil {
		return nil
	}
	return append([]Book(nil), s.books...)
}

// Categories 分类列表（副本）
func (s *Snapshot) Categories() []Category {
	if s == nil {
		return nil
	}
	return append([]Category(nil), s.categories...)
}

// Len 图书数量
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.books)
}

// FetchedAt 拉取完成时间
func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

// Seq 产生该快照的轮询序号，手动创建的快照为0
func (s *Snapshot) Seq() uint64 {
	if s == nil {
		return 0
	}
	return s.seq
}

// CategoryName 按ID查分类名称
func (s *Snapshot) CategoryName(id uint) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

// Book 按ID查图书
func (s *Snapshot) Book(id uint) (Book, bool) {
	if s == nil {
		return Book{}, false
	}
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// fromWire 接口响应 → 目录图书
// 状态以服务端返回为准，缺失时由可借数量推导
func fromWire(b client.Book) Book {
	book := Book{
		ID:        b.ID,
		Title:     b.Title,
		Author:    Author{ID: b.Author.ID, Name: b.Author.Name},
		Status:    Status(b.Status),
		Available: b.Available,
		Total:     b.Total,
		Cover:     b.Cover,
		CreatedAt: b.CreatedAt,
	}
	if b.CategoryID != nil {
		book.CategoryID = *b.CategoryID
	}
	if b.Category != nil {
		book.CategoryName = b.Category.Name
	}
	if book.Status == "" {
		book.Status = StatusUnavailable
		if b.Available > 0 {
			book.Status = StatusAvailable
		}
	}
	return book
}

// BooksFromWire 批量转换
func BooksFromWire(list []client.Book) []Book {
	out := make([]Book, len(list))
	for i, b := range list {
		out[i] = fromWire(b)
	}
	return out
}

// CategoriesFromWire 批量转换
func CategoriesFromWire(list []client.Category) []Category {
	out := make([]Category, len(list))
	for i, c := range list {
		out[i] = Category{ID: c.ID, Name: c.Name}
	}
	return out
}
