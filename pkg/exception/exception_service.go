package exception

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ritmo-app/ritmo/internal/event_bus"
	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/habit"
	"github.com/ritmo-app/ritmo/pkg/user"
)

type Service interface {
	// MarkDeleted hides a single occurrence of a habit. Marking the same
	// occurrence twice is a no-op.
	MarkDeleted(ctx context.Context, habitId string, date time.Time) error
	// RestoreOccurrence removes a deletion marker, making the occurrence
	// visible again.
	RestoreOccurrence(ctx context.Context, habitId string, date time.Time) error
	IsDeleted(ctx context.Context, habitId string, date time.Time) (bool, error)
	// SaveOverride replaces the per-date override of a habit occurrence.
	SaveOverride(ctx context.Context, override Override) (Override, error)
	OverrideForDate(ctx context.Context, habitId string, date time.Time) (*Override, error)
	// DeletedHabitIds returns the ids of all habits with a hidden
	// occurrence on the given day.
	DeletedHabitIds(ctx context.Context, date time.Time) (map[string]bool, error)
	// OverridesForDate returns all overrides of a day, keyed by habit id.
	OverridesForDate(ctx context.Context, date time.Time) (map[string]Override, error)
	// TruncateFutureFrom ends a habit series the day before the given date.
	// When no occurrence days remain the whole habit is deleted instead.
	TruncateFutureFrom(ctx context.Context, habitId string, fromDate time.Time) error
	// SplitSeriesAt applies changes to all occurrences from the given date
	// on, by truncating the original series and creating a continuation
	// habit that starts at the date. It returns the habit carrying the
	// changed occurrences.
	SplitSeriesAt(ctx context.Context, habitId string, fromDate time.Time, changes Override) (habit.Habit, error)
	// PurgeHabit removes every deletion marker and override of a habit.
	PurgeHabit(ctx context.Context, habitId string) error
}

type ExceptionServiceImpl struct {
	repo         Repo
	habitService habit.Service
	eventBus     *event_bus.EventBus
}

func NewExceptionService(repo Repo, habitService habit.Service, eventBus *event_bus.EventBus) *ExceptionServiceImpl {
	return &ExceptionServiceImpl{repo: repo, habitService: habitService, eventBus: eventBus}
}

func (s *ExceptionServiceImpl) MarkDeleted(ctx context.Context, habitId string, date time.Time) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.habitService.GetHabit(ctx, habitId); err != nil {
		return err
	}
	return s.repo.AddDeletion(ctx, userId, habitId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) RestoreOccurrence(ctx context.Context, habitId string, date time.Time) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.RemoveDeletion(ctx, userId, habitId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) IsDeleted(ctx context.Context, habitId string, date time.Time) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.IsDeleted(ctx, userId, habitId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) SaveOverride(ctx context.Context, override Override) (Override, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Override{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.habitService.GetHabit(ctx, override.HabitId); err != nil {
		return Override{}, err
	}
	override.Date = utils.ToDate(override.Date)
	if err := s.repo.StoreOverride(ctx, userId, override); err != nil {
		return Override{}, fmt.Errorf("failed to store override: %w", err)
	}
	return override, nil
}

func (s *ExceptionServiceImpl) OverrideForDate(ctx context.Context, habitId string, date time.Time) (*Override, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindOverride(ctx, userId, habitId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) DeletedHabitIds(ctx context.Context, date time.Time) (map[string]bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.DeletedHabitIds(ctx, userId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) OverridesForDate(ctx context.Context, date time.Time) (map[string]Override, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.OverridesForDate(ctx, userId, utils.ToDate(date))
}

func (s *ExceptionServiceImpl) TruncateFutureFrom(ctx context.Context, habitId string, fromDate time.Time) error {
	existing, err := s.habitService.GetHabit(ctx, habitId)
	if err != nil {
		return err
	}
	fromDate = utils.ToDate(fromDate)
	if !fromDate.After(utils.ToDate(existing.StartDate)) {
		// Nothing would remain of the series, so remove it completely.
		log.Debugf("truncating habit %s before its start, deleting it instead", habitId)
		return s.habitService.DeleteHabit(ctx, habitId)
	}
	newEnd := fromDate.AddDate(0, 0, -1)
	existing.EndDate = &newEnd
	if _, err := s.habitService.UpdateHabit(ctx, existing); err != nil {
		return fmt.Errorf("failed to truncate habit %s: %w", habitId, err)
	}
	return nil
}

func (s *ExceptionServiceImpl) SplitSeriesAt(ctx context.Context, habitId string, fromDate time.Time, changes Override) (habit.Habit, error) {
	existing, err := s.habitService.GetHabit(ctx, habitId)
	if err != nil {
		return habit.Habit{}, err
	}
	fromDate = utils.ToDate(fromDate)

	if !fromDate.After(utils.ToDate(existing.StartDate)) {
		// The whole series changes, no split needed.
		updated, err := s.habitService.UpdateHabit(ctx, changes.ApplyTo(existing))
		if err != nil {
			return habit.Habit{}, err
		}
		return updated, nil
	}

	continuation := changes.ApplyTo(existing)
	continuation.Id = ""
	continuation.StartDate = fromDate
	created, err := s.habitService.CreateHabit(ctx, continuation)
	if err != nil {
		return habit.Habit{}, fmt.Errorf("failed to create continuation habit: %w", err)
	}

	newEnd := fromDate.AddDate(0, 0, -1)
	existing.EndDate = &newEnd
	if _, err := s.habitService.UpdateHabit(ctx, existing); err != nil {
		return habit.Habit{}, fmt.Errorf("failed to truncate habit %s: %w", habitId, err)
	}

	event := event_bus.NewEvent(ctx, event_bus.HabitSeriesSplitEvent, event_bus.HabitSeriesSplit{
		OriginalHabitId: habitId,
		NewHabitId:      created.Id,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish series split event: %v", err)
	}
	return created, nil
}

func (s *ExceptionServiceImpl) PurgeHabit(ctx context.Context, habitId string) error {
	return s.repo.DeleteAllForHabit(ctx, habitId)
}
