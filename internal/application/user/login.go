package user

import (
	"context"
	"time"

	"github.com/xiebiao/rebook/internal/domain/user"
	"github.com/xiebiao/rebook/pkg/jwt"
	"github.com/xiebiao/rebook/pkg/logger"
	"github.com/xiebiao/rebook/pkg/metrics"
)

// SessionStore 会话存储（Redis或内存实现）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 签发JWT（载荷：用户ID + 角色）
// 3. 保存会话
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore SessionStore) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
// 任何失败都返回错误，成功必定带Token
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.ObserveLogin(false)
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(u.ID, string(u.Auth))
	if err != nil {
		metrics.ObserveLogin(false)
		return nil, err
	}

	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"auth":     string(u.Auth),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	// 会话只用于统计和排查，保存失败不影响登录
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, time.Until(token.ExpiresAt)); err != nil {
		logger.Get().Warn().Err(err).Uint("user_id", u.ID).Msg("save session failed")
	}

	metrics.ObserveLogin(true)
	return &LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      *toUserInfo(u),
		Auth:      string(u.Auth),
	}, nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
	Auth      string
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
// Token加入黑名单直到原本的过期时间，之后自然失效
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, token, ttl)
}
