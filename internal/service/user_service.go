package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const maxUsernameLength = 30

// UserService is the identity collaborator: it registers accounts and
// resolves stable user identifiers consumed as owner and sharing references.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates an account. Emails are lowercased and must be unique; a
// duplicate surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, username, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validationf("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, apperror.Validationf("username cannot exceed %d characters", maxUsernameLength)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.Validationf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.Validationf("invalid email address %q", email)
	}

	user := &model.User{Username: username, Email: email}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
