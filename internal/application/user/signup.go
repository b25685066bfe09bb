package user

import (
	"context"

	"github.com/xiebiao/rebook/internal/domain/user"
)

// SignupUseCase 用户注册用例
// 注册用户默认是读者（Reader），图书管理员由种子配置或运维指定
type SignupUseCase struct {
	userService user.Service
}

// NewSignupUseCase 创建注册用例
func NewSignupUseCase(userService user.Service) *SignupUseCase {
	return &SignupUseCase{userService: userService}
}

// Execute 执行注册
// 返回应用层DTO而不是领域实体：不带密码哈希
func (uc *SignupUseCase) Execute(ctx context.Context, req SignupRequest) (*UserInfo, error) {
	u, err := uc.userService.Signup(ctx, user.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
		Username: req.Username,
		Contacts: req.Contacts,
	})
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string
	Password string
	Fullname string
	Username string
	Contacts string
}

// UserInfo 对外可见的用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Username: u.Username,
	}
}
