package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"basic-api/internal/domain"
	"basic-api/internal/repository"
)

// PublicUser is the externally visible part of a user record.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  PublicUser
}

// UserService describes login and user listing operations.
type UserService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Users(ctx context.Context) ([]PublicUser, error)
}

// UserServiceConfig controls login behaviour.
type UserServiceConfig struct {
	// StrictPasswordMatch compares the password against the looked-up user only.
	// When false, a password belonging to any user is accepted for the looked-up
	// username.
	StrictPasswordMatch bool
}

type userService struct {
	users  repository.UserLookup
	tokens TokenService
	strict bool
}

func NewUserService(users repository.UserLookup, tokens TokenService, cfg UserServiceConfig) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		strict: cfg.StrictPasswordMatch,
	}
}

func (s *userService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	ok, err := s.passwordMatches(ctx, user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidPassword
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User:  toPublicUser(*user),
	}, nil
}

func (s *userService) passwordMatches(ctx context.Context, user *domain.User, password string) (bool, error) {
	if s.strict {
		return equal(user.Password, password), nil
	}

	all, err := s.users.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list users: %w", err)
	}
	for i := range all {
		if equal(all[i].Password, password) {
			return true, nil
		}
	}
	return false, nil
}

func (s *userService) Users(ctx context.Context) ([]PublicUser, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]PublicUser, len(all))
	for i := range all {
		out[i] = toPublicUser(all[i])
	}
	return out, nil
}

func equal(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func toPublicUser(user domain.User) PublicUser {
	return PublicUser{
		ID:       user.ID,
		Username: user.Username,
	}
}
