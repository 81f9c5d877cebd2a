package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/repository"
)

const bcryptCost = 10

// dummyHash is compared against when a username does not exist so that
// unknown users and wrong passwords take the same time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("newsroom-placeholder"), bcryptCost)
	return h
})

// UserInput is the data accepted when creating or editing a user.
// A blank Password on update keeps the current password.
type UserInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
}

// UserService manages staff accounts.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Update(ctx context.Context, id uint, in UserInput) error
	Delete(ctx context.Context, actorID, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over repo.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create checks the username is free, hashes the password and stores the user.
// The unique index on username still decides concurrent duplicates.
func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperr.NewValidation("username is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, apperr.NewValidation("password is required")
	}
	role := model.ParseRole(in.Role)
	if !role.Valid() {
		return nil, apperr.ErrInvalidRole
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperr.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, apperr.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user for valid credentials. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// Update edits username, display name and role. The password is rehashed only
// when a non-blank new one is given.
func (s *userService) Update(ctx context.Context, id uint, in UserInput) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	patch := model.UserPatch{
		DisplayName: model.Set(strings.TrimSpace(in.DisplayName)),
	}

	if username := strings.TrimSpace(in.Username); username != "" {
		other, err := s.repo.FindByUsername(ctx, username)
		switch {
		case err == nil && other.ID != id:
			return apperr.ErrUsernameTaken
		case err != nil && !errors.Is(err, apperr.ErrUserNotFound):
			return fmt.Errorf("check user existence: %w", err)
		}
		patch.Username = model.Set(username)
	}

	if in.Role != "" {
		role := model.ParseRole(in.Role)
		if !role.Valid() {
			return apperr.ErrInvalidRole
		}
		patch.Role = model.Set(role)
	}

	if strings.TrimSpace(in.Password) != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = model.Set(string(hashedPassword))
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes a user. Users cannot delete themselves.
func (s *userService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return apperr.ErrSelfDelete
	}
	return s.repo.Delete(ctx, id)
}
