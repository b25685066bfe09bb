package book

import (
	"strings"
	"time"
)

// Status 借阅状态（由可借数量推导，不单独存储）
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
)

// ParseStatus 解析状态，大小写不敏感
func ParseStatus(s string) (Status, bool) {
	switch {
	case strings.EqualFold(s, string(StatusAvailable)):
		return StatusAvailable, true
	case strings.EqualFold(s, string(StatusUnavailable)):
		return StatusUnavailable, true
	}
	return "", false
}

// Author 作者引用
type Author struct {
	ID   uint
	Name string
}

// CategoryRef 分类引用
type CategoryRef struct {
	ID   uint
	Name string
}

// Book 图书实体（聚合根）
// 不变量：0 <= Available <= Total
type Book struct {
	ID        uint
	Title     string
	Author    Author
	Category  CategoryRef
	Available int    // 可借数量
	Total     int    // 馆藏总数
	Cover     string // 封面文件引用（GET /api/v1/file/{cover}）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书（工厂方法）
// 新书全部在馆：Available = Total
func NewBook(title string, author Author, category CategoryRef, total int, cover string) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if strings.TrimSpace(author.Name) == "" && author.ID == 0 {
		return nil, ErrInvalidAuthor
	}
	if total < 0 {
		return nil, ErrInvalidCount
	}

	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		Category:  category,
		Available: total,
		Total:     total,
		Cover:     cover,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Status 借阅状态：有可借副本即Available
func (b *Book) Status() Status {
	if b.Available > 0 {
		return StatusAvailable
	}
	return StatusUnavailable
}
