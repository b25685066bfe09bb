package category

import (
	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

var (
	ErrCategoryNotFound  = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeCategoryDuplicate, "分类名称已存在")
	ErrInvalidName       = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称长度应为1-50个字符")
)
