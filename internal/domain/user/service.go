package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
type Service interface {
	// Signup 注册
	// 业务规则：
	// 1. 邮箱格式、用户名格式（3-32位字母数字._-）、全名1-100字符
	// 2. 密码8-64位，包含字母和数字（bcrypt只取前72字节）
	// 3. 邮箱、用户名唯一（存储层保证）
	Signup(ctx context.Context, req SignupParams) (*User, error)

	// Login 登录
	// 邮箱不存在和密码错误都返回ErrInvalidCredentials，其他错误原样返回
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 校验明文密码与哈希
	ValidatePassword(hashedPassword, plainPassword string) error
}

// SignupParams 注册参数
type SignupParams struct {
	Email    string
	Password string
	Fullname string
	Username string
	Contacts string
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
// cost为bcrypt代价，<=0时使用bcrypt.DefaultCost（测试里用bcrypt.MinCost加速）
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &service{repo: repo, cost: cost}
}

func (s *service) Signup(ctx context.Context, req SignupParams) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, apperrors.ErrInvalidEmail
	}

	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "用户名应为3-32位字母、数字或._-")
	}

	fullname := strings.TrimSpace(req.Fullname)
	if n := utf8.RuneCountInString(fullname); n < 1 || n > 100 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为1-100个字符")
	}

	contacts := strings.TrimSpace(req.Contacts)
	if utf8.RuneCountInString(contacts) > 200 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "联系方式不能超过200个字符")
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), fullname, username, contacts)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidCredentials
	}
	return apperrors.Wrap(err, "密码验证失败")
}

// validatePasswordStrength 8-64位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return apperrors.ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
