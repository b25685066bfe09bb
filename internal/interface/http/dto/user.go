package dto

// SignupRequest HTTP注册请求
// 格式校验在这里做，业务规则（密码强度、用户名字符集、唯一性）在领域服务
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"rita@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Fullname string `json:"fullname" binding:"required" example:"Rita Reader"`
	Username string `json:"username" binding:"required" example:"rita"`
	Contacts string `json:"contacts" example:"Room 12"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"rita@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UserResponse 用户信息（不包含密码）
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Email    string `json:"email" example:"rita@example.com"`
	Name     string `json:"name" example:"Rita Reader"`
	Username string `json:"username" example:"rita"`
}

// SignupResponse {"type":"Success","user":{...}}
type SignupResponse struct {
	Type string       `json:"type" example:"Success"`
	User UserResponse `json:"user"`
}

// LoginResponse {"type":"Success","token":"..."}
type LoginResponse struct {
	Type      string `json:"type" example:"Success"`
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	Auth      string `json:"auth" example:"Reader"`
	ExpiresAt int64  `json:"expiresAt" example:"1735660800"` // Unix秒
}
