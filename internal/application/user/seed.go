package user

import (
	"context"
	"errors"
	"strings"

	"github.com/xiebiao/rebook/internal/domain/user"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/logger"
)

// SeedLibrarianUseCase 启动时确保图书管理员账号存在
// 账号已存在时只提升角色，不修改密码
type SeedLibrarianUseCase struct {
	userService user.Service
	repo        user.Repository
}

// NewSeedLibrarianUseCase 创建管理员种子用例
func NewSeedLibrarianUseCase(userService user.Service, repo user.Repository) *SeedLibrarianUseCase {
	return &SeedLibrarianUseCase{userService: userService, repo: repo}
}

// Execute 执行，Email为空时什么都不做
func (uc *SeedLibrarianUseCase) Execute(ctx context.Context, req SignupRequest) (*UserInfo, error) {
	if req.Email == "" {
		return nil, nil
	}

	u, err := uc.userService.Signup(ctx, user.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
		Username: req.Username,
		Contacts: req.Contacts,
	})
	// 邮箱已注册时MySQL可能先报用户名冲突，两种都按邮箱再查一次
	if errors.Is(err, apperrors.ErrEmailDuplicate) || errors.Is(err, apperrors.ErrUsernameDuplicate) {
		existing, findErr := uc.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		switch {
		case findErr == nil:
			u, err = existing, nil
		case !errors.Is(findErr, apperrors.ErrUserNotFound):
			err = findErr
		}
	}
	if err != nil {
		return nil, err
	}

	if !u.IsLibrarian() {
		if err := uc.repo.SetRole(ctx, u.ID, user.RoleLibrarian); err != nil {
			return nil, err
		}
	}

	logger.Get().Info().Uint("user_id", u.ID).Str("email", u.Email).Msg("librarian account ready")
	return toUserInfo(u), nil
}
