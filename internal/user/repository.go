package user

import (
	"context"

	"gorm.io/gorm"

	"invitation-canvas-editor/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	AdjustInvitationCount(ctx context.Context, id uint64, delta int) error
	IncreaseTokenVersion(ctx context.Context, id uint64) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdjustInvitationCount adds delta to the counter without letting it go below zero.
func (r *UserRepositoryImpl) AdjustInvitationCount(ctx context.Context, id uint64, delta int) error {
	expr := gorm.Expr("invitation_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN invitation_count + ? < 0 THEN 0 ELSE invitation_count + ? END", delta, delta)
	}
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("invitation_count", expr).Error
}

func (r *UserRepositoryImpl) IncreaseTokenVersion(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}
