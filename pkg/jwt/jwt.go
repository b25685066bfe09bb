package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

const issuer = "rebook"

// Manager JWT签发与校验
// 说明：登录只签发一个Token，载荷是用户ID和角色（auth）
type Manager struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		expire: expire,
		now:    time.Now,
	}
}

// Claims 自定义Claims
// json字段名沿用前端约定：{"id":1,"auth":"Librarian"}
type Claims struct {
	UserID uint   `json:"id"`
	Auth   string `json:"auth"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// GenerateToken 签发Token
func (m *Manager) GenerateToken(userID uint, auth string) (*Token, error) {
	now := m.now()
	expiresAt := now.Add(m.expire)

	claims := Claims{
		UserID: userID,
		Auth:   auth,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken 解析并校验Token（签名、exp、nbf、iss）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// TTL Token剩余有效期（黑名单过期时间用）
func (m *Manager) TTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return m.expire
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl < 0 {
		return 0
	}
	return ttl
}
