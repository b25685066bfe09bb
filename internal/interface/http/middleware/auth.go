package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/rebook/internal/domain/user"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
	"github.com/xiebiao/rebook/pkg/jwt"
	"github.com/xiebiao/rebook/pkg/response"
)

// Context键
const (
	ContextUserID = "user_id"
	ContextAuth   = "auth"
	ContextToken  = "token"
	ContextClaims = "claims"
)

// TokenBlacklist 已登出Token的黑名单（Redis或内存实现）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Authorization头提取Token（"Bearer <token>"或裸Token都接受）
// 2. 检查黑名单
// 3. 校验签名和有效期
// 4. 将用户ID、角色写入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, apperrors.Wrap(err, "验证Token失败"))
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		claims, err := m.jwtManager.ParseToken(token)
		if err != nil {
			response.Abort(c, err) // ErrTokenExpired / ErrInvalidToken
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextAuth, claims.Auth)
		c.Set(ContextToken, token)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole 要求指定角色，必须放在RequireAuth之后
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAuth(c) != string(role) {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// extractToken 网页客户端直接发送Token，命令行客户端发送Bearer格式
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.ContainsRune(header, ' ') {
		return ""
	}
	return header
}

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetAuth 当前登录用户角色
func GetAuth(c *gin.Context) string {
	return c.GetString(ContextAuth)
}

// GetToken 当前请求的原始Token（登出时加入黑名单）
func GetToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}

// GetClaims 当前请求的Token载荷
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}
