package service

import (
	"context"
	"errors"
	"fmt"

	"blog_app/internal/models"
	"blog_app/internal/repository"
)

type activityRecorder interface {
	Record(ctx context.Context, typ string, userID int64, description string, meta any)
}

// AuthService handles user registration and login checks.
type AuthService struct {
	users    repository.UserRepo
	activity activityRecorder
}

func NewAuthService(users repository.UserRepo, activity activityRecorder) *AuthService {
	return &AuthService{users: users, activity: activity}
}

var _ Authorization = (*AuthService)(nil)

// Register hashes the password and creates the user.
func (s *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrUsernameTaken) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}

	s.activity.Record(ctx, models.EventUserRegistered, id, fmt.Sprintf("user %s registered", username), nil)
	return id, nil
}

// Authenticate returns the user whose credentials match. Unknown user and
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.activity.Record(ctx, models.EventLogin, u.ID, fmt.Sprintf("user %s logged in", u.Username), nil)
	return u, nil
}

// UserByID returns (nil, nil) for unknown ids.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
