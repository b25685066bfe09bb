package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/rebook/internal/application/book"
	"github.com/xiebiao/rebook/internal/interface/http/dto"
	"github.com/xiebiao/rebook/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	publishBookUseCase *appbook.PublishBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	publishBookUseCase *appbook.PublishBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		publishBookUseCase: publishBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书（不分页），客户端轮询后本地搜索筛选。sort=latest按入库时间倒序
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        sort query string false "排序方式" Enums(latest)
// @Success      200 {array} dto.BookResponse
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	items, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Sort: c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.FromBookItems(items))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/book/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	item, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Object(c, dto.FromBookItem(*item))
}

// PublishBook 图书入库
// @Summary      图书入库
// @Description  图书管理员新增图书，作者按名称查找或创建，新书全部可借
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "不是图书管理员"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/book [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("参数错误: "+err.Error()))
		return
	}

	item, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		CategoryID:  req.CategoryID,
		Total:       req.Total,
		Cover:       req.Cover,
		PublisherID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBookItem(*item))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  图书管理员删除图书（软删除），客户端下一次轮询后列表中不再出现
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.DeleteBookResponse}
// @Failure      403 {object} response.Response "不是图书管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/book/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	err := h.deleteBookUseCase.Execute(c.Request.Context(), appbook.DeleteBookRequest{
		BookID:    id,
		DeletedBy: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.DeleteBookResponse{ID: id})
}

// bookID 解析路径参数:id，失败时已写入错误响应
func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("无效的图书ID"))
		return 0, false
	}
	return uint(id), true
}
