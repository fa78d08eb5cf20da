package service

import (
	"context"
	"strings"
	"time"

	"blog_app/internal/logger"
	"blog_app/internal/models"
	"blog_app/internal/repository"
)

type ActivityService struct {
	repo repository.ActivityRepo
	log  *logger.Logger
}

func NewActivityService(repo repository.ActivityRepo, log *logger.Logger) *ActivityService {
	return &ActivityService{repo: repo, log: log}
}

var _ ActivityLog = (*ActivityService)(nil)

// Record appends an event. Failures are logged and otherwise ignored.
func (s *ActivityService) Record(ctx context.Context, typ string, userID int64, description string, meta any) {
	err := s.repo.Append(ctx, models.ActivityEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		UserID:      userID,
		Description: description,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Warnw("activity_record_failed", "type", typ, "user_id", userID, "error", err)
	}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f ActivityFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}

func (s *ActivityService) List(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error) {
	if f.UserID <= 0 {
		return nil, ErrActivityOwner
	}
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, f.UserID, from, to, typ)
}
