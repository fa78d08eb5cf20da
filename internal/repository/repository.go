package repository

import (
	"context"
	"time"

	"blog_app/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepo interface {
	Create(ctx context.Context, username, hash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type PostRepo interface {
	List(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
}

type ActivityRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, userID int64, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Users    UserRepo
	Posts    PostRepo
	Activity ActivityRepo
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Posts:    NewPostRepository(db),
		Activity: NewActivityRepository(db),
	}
}
