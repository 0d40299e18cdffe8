package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/user"
)

var ErrNegativeAmount = errors.New("progress amount must not be negative")

type Service interface {
	// GetProgress returns the logged amount for an occurrence, zero when
	// nothing was logged.
	GetProgress(ctx context.Context, habitId string, date time.Time) (Record, error)
	// SetProgress replaces the logged amount for an occurrence.
	SetProgress(ctx context.Context, record Record) (Record, error)
	// AmountsForDate returns habit id to amount for all records of a day.
	AmountsForDate(ctx context.Context, date time.Time) (map[string]int, error)
	// PurgeHabit removes every progress record of a habit.
	PurgeHabit(ctx context.Context, habitId string) error
}

type ProgressServiceImpl struct {
	repo Repo
}

func NewProgressService(repo Repo) *ProgressServiceImpl {
	return &ProgressServiceImpl{repo: repo}
}

func (s *ProgressServiceImpl) GetProgress(ctx context.Context, habitId string, date time.Time) (Record, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, habitId, utils.ToDate(date))
}

func (s *ProgressServiceImpl) SetProgress(ctx context.Context, record Record) (Record, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if record.Amount < 0 {
		return Record{}, ErrNegativeAmount
	}
	record.Date = utils.ToDate(record.Date)
	if err := s.repo.Upsert(ctx, userId, record); err != nil {
		return Record{}, fmt.Errorf("failed to store progress: %w", err)
	}
	return record, nil
}

func (s *ProgressServiceImpl) AmountsForDate(ctx context.Context, date time.Time) (map[string]int, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ForDate(ctx, userId, utils.ToDate(date))
}

func (s *ProgressServiceImpl) PurgeHabit(ctx context.Context, habitId string) error {
	return s.repo.DeleteAllForHabit(ctx, habitId)
}
