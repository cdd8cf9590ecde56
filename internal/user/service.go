package user

import (
	"context"
	defError "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *domain.User) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
	IncrementInvitationCount(ctx context.Context, id uint64) error
	DecrementInvitationCount(ctx context.Context, id uint64) error
	Logout(ctx context.Context, id uint64) error
}

type DefaultService struct {
	repository UserRepository
}

func NewService(repository UserRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) Register(ctx context.Context, user *domain.User) error {
	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true

	return s.repository.Create(ctx, user)
}

func (s *DefaultService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("User not found", err)
	}

	if !user.IsActive {
		return nil, errors.Unauthorized("User is not active", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.UnprocessableEntity("Wrong password", err)
	}

	return user, nil
}

func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := s.repository.FindByID(ctx, id)
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("User not found", err)
	}
	return user, err
}

func (s *DefaultService) IncrementInvitationCount(ctx context.Context, id uint64) error {
	return s.repository.AdjustInvitationCount(ctx, id, 1)
}

func (s *DefaultService) DecrementInvitationCount(ctx context.Context, id uint64) error {
	return s.repository.AdjustInvitationCount(ctx, id, -1)
}

// Logout invalidates every token issued so far.
func (s *DefaultService) Logout(ctx context.Context, id uint64) error {
	return s.repository.IncreaseTokenVersion(ctx, id)
}
