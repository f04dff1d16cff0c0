package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cyberblog/internal/model"
)

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type AuthService struct {
	users UserFinder
}

func NewAuthService(users UserFinder) *AuthService {
	return &AuthService{users: users}
}

// Authenticate resolves username/password to a user record. An unknown
// username and a wrong password both come back as ErrInvalidCredentials so
// login responses cannot be used to enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}
