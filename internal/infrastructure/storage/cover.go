// Package storage 封面文件存储
//
// 图书的cover字段保存文件引用（相对cover_dir的文件名），
// GET /api/v1/file/{ref} 按引用读取文件。
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

var (
	ErrFileNotFound = apperrors.New(apperrors.ErrCodeFileNotFound, "文件不存在")
	ErrInvalidRef   = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的文件引用")
)

// CoverStore 本地目录中的封面文件
type CoverStore struct {
	dir string
}

// NewCoverStore 创建封面存储，目录不存在时自动创建
func NewCoverStore(dir string) (*CoverStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, "解析封面目录失败")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperrors.Wrapf(err, "创建封面目录失败: %s", abs)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, apperrors.Wrapf(err, "解析封面目录失败: %s", abs)
	}
	return &CoverStore{dir: resolved}, nil
}

// Resolve 文件引用 → 磁盘路径
// 引用只能是目录内的文件：拒绝绝对路径、..、隐藏文件和目录，
// 符号链接解析后仍须落在目录内
func (s *CoverStore) Resolve(ref string) (string, error) {
	if ref == "" || strings.ContainsRune(ref, 0) || filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return "", ErrInvalidRef
	}

	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidRef
	}
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return "", ErrInvalidRef
		}
	}

	path := filepath.Join(s.dir, clean)
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidRef
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", apperrors.Wrap(err, "读取文件失败")
	}
	if info.IsDir() {
		return "", ErrFileNotFound
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", apperrors.Wrap(err, "读取文件失败")
	}
	rel, err = filepath.Rel(s.dir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidRef
	}
	return resolved, nil
}
