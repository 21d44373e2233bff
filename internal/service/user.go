package service

import (
	"context"

	"etfolio/internal/apperr"
	"etfolio/internal/models"
	"etfolio/internal/repository"
)

// UserService resolves the acting principal. Users are created lazily on the
// first authenticated mutation.
type UserService struct {
	Users repository.UserRepository
}

func (s *UserService) FindOrCreate(ctx context.Context, email, provider, name string) (*models.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	if name == "" {
		name = email
	}
	if provider == "" {
		provider = "local"
	}
	return s.Users.Save(ctx, &models.User{Email: email, Name: name, Provider: provider})
}

func (s *UserService) Current(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user.not.found", email)
	}
	return user, nil
}
