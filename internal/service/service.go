package service

import (
	"context"

	"blog_app/internal/logger"
	"blog_app/internal/models"
	"blog_app/internal/repository"
)

// Authorization covers registration, credential checks and session lookups.
type Authorization interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Posts owns the slug policy on top of the post repository.
// Ownership checks are left to callers.
type Posts interface {
	List(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, title, content string, ownerID int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post, title, content string) (*models.Post, error)
	Delete(ctx context.Context, post *models.Post) error
}

// ActivityLog is the append-only audit trail.
type ActivityLog interface {
	Record(ctx context.Context, typ string, userID int64, description string, meta any)
	List(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error)
}

type Service struct {
	Authorization
	Posts
	ActivityLog
}

func NewService(repos *repository.Repository, log *logger.Logger) *Service {
	activity := NewActivityService(repos.Activity, log)
	return &Service{
		Authorization: NewAuthService(repos.Users, activity),
		Posts:         NewPostService(repos.Posts, activity),
		ActivityLog:   activity,
	}
}
