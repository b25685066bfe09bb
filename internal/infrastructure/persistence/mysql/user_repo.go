package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/rebook/internal/domain/user"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（邮箱、用户名重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT），
// 根据冲突的索引名区分邮箱重复和用户名重复
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:    u.Email,
		Password: u.Password,
		Name:     u.Name,
		Username: u.Username,
		Contacts: u.Contacts,
		Auth:     string(u.Auth),
	}
	if !u.Auth.Valid() {
		model.Auth = string(user.RoleReader)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			if duplicateKey(err) == "idx_users_username" {
				return apperrors.ErrUsernameDuplicate
			}
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.Auth = user.Role(model.Auth)
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户（email字段有UNIQUE索引）
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role user.Role) error {
	if !role.Valid() {
		return apperrors.ErrInvalidParams
	}

	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Update("auth", string(role))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户角色失败")
	}
	if result.RowsAffected == 0 {
		// 角色没变时MySQL也返回0行，再查一次区分
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Name:      model.Name,
		Username:  model.Username,
		Contacts:  model.Contacts,
		Auth:      user.Role(model.Auth),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
