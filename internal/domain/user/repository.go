package user

import (
	"context"
)

// Repository 用户仓储接口
// 唯一性由存储层保证（UNIQUE索引），Create在冲突时返回：
//   - 邮箱重复：errors.ErrEmailDuplicate
//   - 用户名重复：errors.ErrUsernameDuplicate
type Repository interface {
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// SetRole 修改角色（没有对外接口，启动时的管理员种子数据使用）
	SetRole(ctx context.Context, id uint, role Role) error
}
