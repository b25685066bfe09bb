package category

import (
	"strings"
	"time"
)

// Category 图书分类
// 对读者和图书管理员界面只读，由服务端维护
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// NewCategory 创建分类
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 50 {
		return nil, ErrInvalidName
	}
	return &Category{Name: name, CreatedAt: time.Now()}, nil
}
