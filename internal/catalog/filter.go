package catalog

import (
	"fmt"
	"strings"
)

// StatusFilter 状态筛选：All或具体状态
type StatusFilter string

// StatusAll 不限状态，零值""等同于All
const StatusAll StatusFilter = "All"

// ParseStatusFilter 解析状态筛选，大小写不敏感，空串为All
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch {
	case s == "", strings.EqualFold(s, string(StatusAll)):
		return StatusAll, nil
	case strings.EqualFold(s, string(StatusAvailable)):
		return StatusFilter(StatusAvailable), nil
	case strings.EqualFold(s, string(StatusUnavailable)):
		return StatusFilter(StatusUnavailable), nil
	}
	return "", fmt.Errorf("unknown status %q (want All, Available or Unavailable)", s)
}

// Predicate 筛选条件
// 零值不过滤任何图书
type Predicate struct {
	Search     string       // 书名或作者名包含该词（不区分大小写），空串匹配全部
	CategoryID uint         // 0表示不限分类
	Status     StatusFilter // ""或All表示不限状态
}

// Match 三个条件同时满足才算匹配
func (p Predicate) Match(b Book) bool {
	return p.matchText(b) && p.matchCategory(b) && p.matchStatus(b)
}

func (p Predicate) matchText(b Book) bool {
	if p.Search == "" {
		return true
	}
	term := strings.ToLower(p.Search)
	return strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.Author.Name), term)
}

func (p Predicate) matchCategory(b Book) bool {
	return p.CategoryID == 0 || b.CategoryID == p.CategoryID
}

func (p Predicate) matchStatus(b Book) bool {
	return p.Status == "" || p.Status == StatusAll || Status(p.Status) == b.Status
}

// Filter 从快照中筛选可见图书，保持快照中的顺序
// 快照为nil（还没有成功拉取过）时返回nil
func Filter(s *Snapshot, p Predicate) []Book {
	if s == nil {
		return nil
	}
	return FilterBooks(s.books, p)
}

// FilterBooks 筛选图书列表，不修改入参
func FilterBooks(books []Book, p Predicate) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if p.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
