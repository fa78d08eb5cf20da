package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blog_app/internal/models"

	"github.com/jmoiron/sqlx"
)

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ PostRepo = (*PostRepository)(nil)

const (
	selectPostsSQL = `SELECT p.id, p.title, p.content, p.slug, p.owner_id, u.username AS owner_username
		FROM posts p JOIN users u ON u.id = p.owner_id`
	listPostsSQL       = selectPostsSQL + ` ORDER BY p.id ASC`
	selectPostBySlug   = selectPostsSQL + ` WHERE p.slug = ?`
	insertPostSQL      = `INSERT INTO posts (title, content, slug, owner_id) VALUES (?, ?, ?, ?) RETURNING id`
	updatePostSQL      = `UPDATE posts SET title = ?, content = ?, slug = ? WHERE id = ?`
	deletePostSQL      = `DELETE FROM posts WHERE id = ?`
	slugsWithPrefixSQL = `SELECT slug FROM posts WHERE slug = ? OR slug LIKE ? ESCAPE '\'`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns all posts in creation order.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0, 16)
	if err := r.db.SelectContext(ctx, &posts, listPostsSQL); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns (nil, nil) when no post has the slug.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := r.db.GetContext(ctx, &p, r.db.Rebind(selectPostBySlug), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %q: %w", slug, err)
	}
	return &p, nil
}

// Create inserts p with its slug already chosen and returns a copy carrying the new ID.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	out := *p
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertPostSQL), p.Title, p.Content, p.Slug, p.OwnerID).Scan(&out.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("insert post %q: %w", p.Slug, err)
	}
	return &out, nil
}

// Update writes title, content and slug. Returns (nil, nil) if the post is gone.
func (r *PostRepository) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(updatePostSQL), p.Title, p.Content, p.Slug, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update post %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected for post %d: %w", p.ID, err)
	}
	if n == 0 {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(deletePostSQL), id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// SlugsWithPrefix returns base itself and every "base-*" slug in use.
func (r *PostRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	slugs := make([]string, 0, 4)
	pattern := likeEscaper.Replace(base) + "-%"
	if err := r.db.SelectContext(ctx, &slugs, r.db.Rebind(slugsWithPrefixSQL), base, pattern); err != nil {
		return nil, fmt.Errorf("select slugs like %q: %w", base, err)
	}
	return slugs, nil
}
