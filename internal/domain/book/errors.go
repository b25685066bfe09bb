package book

import (
	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

// 图书领域错误
var (
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	ErrInvalidTitle  = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrInvalidAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")
	ErrInvalidCount  = apperrors.New(apperrors.ErrCodeInvalidParams, "馆藏数量不合法")
	ErrInvalidSort   = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的排序方式")
)
