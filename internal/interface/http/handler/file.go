package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/rebook/internal/infrastructure/storage"
	"github.com/xiebiao/rebook/pkg/response"
)

// FileHandler 封面文件
type FileHandler struct {
	covers *storage.CoverStore
}

// NewFileHandler 创建文件处理器
func NewFileHandler(covers *storage.CoverStore) *FileHandler {
	return &FileHandler{covers: covers}
}

// GetFile 读取封面文件
// @Summary      读取封面
// @Description  按图书cover字段中的文件引用返回图片
// @Tags         文件
// @Produce      octet-stream
// @Param        ref path string true "文件引用"
// @Success      200 {file} binary
// @Security     BearerAuth
// @Failure      400 {object} response.Response "无效的文件引用"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "文件不存在"
// @Router       /api/v1/file/{ref} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	path, err := h.covers.Resolve(strings.TrimPrefix(c.Param("ref"), "/"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.File(path)
}
