package habit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ritmo-app/ritmo/internal/event_bus"
	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/user"
)

type Service interface {
	CreateHabit(ctx context.Context, habit Habit) (Habit, error)
	GetHabit(ctx context.Context, habitId string) (Habit, error)
	GetAllHabits(ctx context.Context) ([]Habit, error)
	UpdateHabit(ctx context.Context, habit Habit) (Habit, error)
	DeleteHabit(ctx context.Context, habitId string) error
}

type HabitServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewHabitService(repo Repo, eventBus *event_bus.EventBus) *HabitServiceImpl {
	return &HabitServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *HabitServiceImpl) CreateHabit(ctx context.Context, habit Habit) (Habit, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Habit{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := habit.Validate(); err != nil {
		return Habit{}, err
	}
	if habit.Id == "" {
		habit.Id = uuid.NewString()
	}
	habit = normalize(habit)
	return s.repo.CreateHabit(ctx, userId, habit)
}

func (s *HabitServiceImpl) GetHabit(ctx context.Context, habitId string) (Habit, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Habit{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetHabit(ctx, userId, habitId)
}

func (s *HabitServiceImpl) GetAllHabits(ctx context.Context) ([]Habit, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAllHabits(ctx, userId)
}

func (s *HabitServiceImpl) UpdateHabit(ctx context.Context, habit Habit) (Habit, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Habit{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := habit.Validate(); err != nil {
		return Habit{}, err
	}
	habit = normalize(habit)
	return s.repo.UpdateHabit(ctx, userId, habit)
}

// DeleteHabit removes a habit definition along with everything recorded
// against it. Dependent records are purged first through the event bus, so
// a failing purge leaves the habit in place instead of orphaning rows.
func (s *HabitServiceImpl) DeleteHabit(ctx context.Context, habitId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.repo.GetHabit(ctx, userId, habitId); err != nil {
		return err
	}
	event := event_bus.NewEvent(ctx, event_bus.HabitDeletedEvent, event_bus.HabitDeleted{HabitId: habitId})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to purge records of habit %s: %v", habitId, err)
		return fmt.Errorf("failed to purge records of habit %s: %w", habitId, err)
	}
	return s.repo.DeleteHabit(ctx, userId, habitId)
}

func normalize(habit Habit) Habit {
	habit.StartDate = utils.ToDate(habit.StartDate)
	if habit.EndDate != nil {
		end := utils.ToDate(*habit.EndDate)
		habit.EndDate = &end
	}
	if habit.IsAllDay {
		habit.StartTime = ""
		habit.EndTime = ""
	}
	return habit
}
