package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, patch model.UserPatch) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db      *gorm.DB
	timeout timeout
}

// NewUserRepository builds a GORM-backed repository. Each call is bounded by callTimeout.
func NewUserRepository(db *gorm.DB, callTimeout time.Duration) UserRepository {
	return &userRepository{db: db, timeout: timeout(callTimeout)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, apperr.ErrUserNotFound, "find user")
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, apperr.ErrUserNotFound, "find user by username")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, patch model.UserPatch) error {
	updates := map[string]interface{}{}
	if v, ok := patch.Username.Get(); ok {
		updates["username"] = v
	}
	if v, ok := patch.DisplayName.Get(); ok {
		updates["display_name"] = v
	}
	if v, ok := patch.Role.Get(); ok {
		updates["role"] = v
	}
	if v, ok := patch.PasswordHash.Get(); ok {
		updates["password"] = v
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.ErrUsernameTaken
		}
		return fmt.Errorf("update user %d: %w", id, res.Error)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// notFound converts gorm's record-not-found into sentinel and wraps anything else.
func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}
