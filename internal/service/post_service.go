package service

import (
	"context"
	"errors"
	"fmt"

	"blog_app/internal/models"
	"blog_app/internal/repository"
	"blog_app/internal/slug"
)

const (
	// defaultSlug stands in when a title has no sluggable characters.
	defaultSlug = "post"
	// slugRetries bounds re-allocation after losing a unique-constraint race.
	slugRetries = 3
)

// reservedSlugs collide with fixed routes under /post/.
var reservedSlugs = []string{"create"}

type PostService struct {
	repo     repository.PostRepo
	activity activityRecorder
}

func NewPostService(repo repository.PostRepo, activity activityRecorder) *PostService {
	return &PostService{repo: repo, activity: activity}
}

var _ Posts = (*PostService)(nil)

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.repo.List(ctx)
}

// GetBySlug returns ErrPostNotFound when no post carries slug.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.repo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, title, content string, ownerID int64) (*models.Post, error) {
	for attempt := 0; attempt <= slugRetries; attempt++ {
		sl, err := s.allocateSlug(ctx, title, "")
		if err != nil {
			return nil, err
		}

		p, err := s.repo.Create(ctx, &models.Post{
			Title:   title,
			Content: content,
			Slug:    sl,
			OwnerID: ownerID,
		})
		if errors.Is(err, repository.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.activity.Record(ctx, models.EventPostCreated, ownerID, fmt.Sprintf("post %q created", title), map[string]any{"slug": p.Slug})
		return p, nil
	}
	return nil, ErrSlugConflict
}

// Update rewrites title and content and re-derives the slug. The post's own
// current slug does not count as a collision.
func (s *PostService) Update(ctx context.Context, post *models.Post, title, content string) (*models.Post, error) {
	for attempt := 0; attempt <= slugRetries; attempt++ {
		sl, err := s.allocateSlug(ctx, title, post.Slug)
		if err != nil {
			return nil, err
		}

		next := *post
		next.Title, next.Content, next.Slug = title, content, sl

		p, err := s.repo.Update(ctx, &next)
		if errors.Is(err, repository.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrPostNotFound
		}

		s.activity.Record(ctx, models.EventPostUpdated, post.OwnerID, fmt.Sprintf("post %q updated", title),
			map[string]any{"slug": p.Slug, "previous_slug": post.Slug})
		return p, nil
	}
	return nil, ErrSlugConflict
}

func (s *PostService) Delete(ctx context.Context, post *models.Post) error {
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return err
	}
	s.activity.Record(ctx, models.EventPostDeleted, post.OwnerID, fmt.Sprintf("post %q deleted", post.Title), map[string]any{"slug": post.Slug})
	return nil
}

// allocateSlug derives a slug from title and appends -2, -3, ... until it
// finds one not in use. own is the caller's current slug, treated as free.
func (s *PostService) allocateSlug(ctx context.Context, title, own string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = defaultSlug
	}

	taken, err := s.repo.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}
	used := make(map[string]struct{}, len(taken)+len(reservedSlugs))
	for _, r := range reservedSlugs {
		used[r] = struct{}{}
	}
	for _, t := range taken {
		if own != "" && t == own {
			continue
		}
		used[t] = struct{}{}
	}

	return firstFreeSlug(base, used), nil
}

func firstFreeSlug(base string, used map[string]struct{}) string {
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
