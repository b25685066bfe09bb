package dto

import (
	"time"

	appbook "github.com/xiebiao/rebook/internal/application/book"
)

// PublishBookRequest HTTP图书入库请求
type PublishBookRequest struct {
	Title      string `json:"title" binding:"required,max=200" example:"Dune"`
	Author     string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	CategoryID uint   `json:"categoryId" example:"1"` // 0或不传表示未分类
	Total      int    `json:"total" binding:"min=0,max=100000" example:"3"`
	Cover      string `json:"cover" binding:"max=255" example:"dune.jpg"`
}

// CreateCategoryRequest HTTP新建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"Fiction"`
}

// AuthorResponse 作者
type AuthorResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Frank Herbert"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Fiction"`
}

// BookResponse 图书
// 列表和详情同一结构，字段名与客户端约定为camelCase
type BookResponse struct {
	ID         uint              `json:"id" example:"1"`
	Title      string            `json:"title" example:"Dune"`
	Author     AuthorResponse    `json:"author"`
	CategoryID *uint             `json:"categoryId" example:"1"` // 未分类为null
	Category   *CategoryResponse `json:"category"`
	Status     string            `json:"status" example:"Available"`
	Available  int               `json:"available" example:"2"`
	Total      int               `json:"total" example:"3"`
	Cover      string            `json:"cover" example:"dune.jpg"`
	CreatedAt  time.Time         `json:"createdAt" example:"2024-01-15T10:30:00Z"`
}

// DeleteBookResponse 删除结果
type DeleteBookResponse struct {
	ID uint `json:"id" example:"1"`
}

// FromBookItem 应用层DTO → HTTP响应
func FromBookItem(item appbook.BookItem) BookResponse {
	resp := BookResponse{
		ID:        item.ID,
		Title:     item.Title,
		Author:    AuthorResponse{ID: item.AuthorID, Name: item.AuthorName},
		Status:    item.Status,
		Available: item.Available,
		Total:     item.Total,
		Cover:     item.Cover,
		CreatedAt: item.CreatedAt,
	}
	if item.CategoryID != 0 {
		id := item.CategoryID
		resp.CategoryID = &id
		resp.Category = &CategoryResponse{ID: item.CategoryID, Name: item.CategoryName}
	}
	return resp
}

// FromBookItems 批量转换
func FromBookItems(items []appbook.BookItem) []BookResponse {
	out := make([]BookResponse, len(items))
	for i, item := range items {
		out[i] = FromBookItem(item)
	}
	return out
}

// FromCategoryItems 批量转换
func FromCategoryItems(items []appbook.CategoryItem) []CategoryResponse {
	out := make([]CategoryResponse, len(items))
	for i, item := range items {
		out[i] = CategoryResponse{ID: item.ID, Name: item.Name}
	}
	return out
}
