package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/rebook/internal/application/book"
	"github.com/xiebiao/rebook/internal/interface/http/dto"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	listUseCase   *appbook.ListCategoriesUseCase
	createUseCase *appbook.CreateCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(listUseCase *appbook.ListCategoriesUseCase, createUseCase *appbook.CreateCategoryUseCase) *CategoryHandler {
	return &CategoryHandler{listUseCase: listUseCase, createUseCase: createUseCase}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	items, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.FromCategoryItems(items))
}

// CreateCategory 新建分类
// @Summary      新建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类名称"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      403 {object} response.Response "不是图书管理员"
// @Failure      409 {object} response.Response "分类名称已存在"
// @Router       /api/v1/category [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("参数错误: "+err.Error()))
		return
	}

	item, err := h.createUseCase.Execute(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CategoryResponse{ID: item.ID, Name: item.Name})
}
