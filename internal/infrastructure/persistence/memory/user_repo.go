package memory

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/rebook/internal/domain/user"
	apperrors "github.com/xiebiao/rebook/pkg/errors"
)

type userRow struct {
	id        uint
	email     string
	password  string
	name      string
	username  string
	contacts  string
	auth      user.Role
	createdAt time.Time
	updatedAt time.Time
}

type userRepository struct {
	store *Store
}

// NewUserRepository 创建内存用户仓储
func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// 与MySQL的utf8mb4_general_ci排序规则一致，唯一性不区分大小写
	for _, row := range s.users {
		if strings.EqualFold(row.email, u.Email) {
			return apperrors.ErrEmailDuplicate
		}
		if strings.EqualFold(row.username, u.Username) {
			return apperrors.ErrUsernameDuplicate
		}
	}

	s.nextUserID++
	now := s.now()
	auth := u.Auth
	if !auth.Valid() {
		auth = user.RoleReader
	}
	s.users[s.nextUserID] = userRow{
		id:        s.nextUserID,
		email:     u.Email,
		password:  u.Password,
		name:      u.Name,
		username:  u.Username,
		contacts:  u.Contacts,
		auth:      auth,
		createdAt: now,
		updatedAt: now,
	}

	u.ID = s.nextUserID
	u.Auth = auth
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id uint) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return row.entity(), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.users {
		if strings.EqualFold(row.email, email) {
			return row.entity(), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) SetRole(_ context.Context, id uint, role user.Role) error {
	if !role.Valid() {
		return apperrors.ErrInvalidParams
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	row.auth = role
	row.updatedAt = s.now()
	s.users[id] = row
	return nil
}

func (row userRow) entity() *user.User {
	return &user.User{
		ID:        row.id,
		Email:     row.email,
		Password:  row.password,
		Name:      row.name,
		Username:  row.username,
		Contacts:  row.contacts,
		Auth:      row.auth,
		CreatedAt: row.createdAt,
		UpdatedAt: row.updatedAt,
	}
}
