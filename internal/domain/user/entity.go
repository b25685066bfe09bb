package user

import (
	"time"
)

// Role 用户角色，签发Token时写入auth字段
type Role string

const (
	RoleReader    Role = "Reader"
	RoleLibrarian Role = "Librarian"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleReader || r == RoleLibrarian
}

// User 用户实体（聚合根）
// Password是bcrypt哈希，不对外暴露
type User struct {
	ID        uint
	Email     string
	Password  string
	Name      string // 全名
	Username  string
	Contacts  string // 联系方式（电话、地址等，自由文本）
	Auth      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法），默认角色为读者
func NewUser(email, hashedPassword, name, username, contacts string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Username:  username,
		Contacts:  contacts,
		Auth:      RoleReader,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLibrarian 是否图书管理员
func (u *User) IsLibrarian() bool {
	return u.Auth == RoleLibrarian
}
