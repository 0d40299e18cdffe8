package exception

import (
	"context"
	"time"

	"github.com/ritmo-app/ritmo/internal/utils"
)

type stubKey struct {
	userId  int
	habitId string
	date    string
}

func key(userId int, habitId string, date time.Time) stubKey {
	return stubKey{userId, habitId, utils.FormatDate(date)}
}

type StubExceptionRepository struct {
	deletions map[stubKey]bool
	overrides map[stubKey]Override
}

func NewStubExceptionRepository() *StubExceptionRepository {
	return &StubExceptionRepository{
		deletions: map[stubKey]bool{},
		overrides: map[stubKey]Override{},
	}
}

func (s *StubExceptionRepository) AddDeletion(ctx context.Context, userId int, habitId string, date time.Time) error {
	s.deletions[key(userId, habitId, date)] = true
	return nil
}

func (s *StubExceptionRepository) RemoveDeletion(ctx context.Context, userId int, habitId string, date time.Time) error {
	delete(s.deletions, key(userId, habitId, date))
	return nil
}

func (s *StubExceptionRepository) IsDeleted(ctx context.Context, userId int, habitId string, date time.Time) (bool, error) {
	return s.deletions[key(userId, habitId, date)], nil
}

func (s *StubExceptionRepository) DeletedHabitIds(ctx context.Context, userId int, date time.Time) (map[string]bool, error) {
	deleted := make(map[string]bool)
	day := utils.FormatDate(date)
	for k := range s.deletions {
		if k.userId == userId && k.date == day {
			deleted[k.habitId] = true
		}
	}
	return deleted, nil
}

func (s *StubExceptionRepository) StoreOverride(ctx context.Context, userId int, override Override) error {
	s.overrides[key(userId, override.HabitId, override.Date)] = override
	return nil
}

func (s *StubExceptionRepository) FindOverride(ctx context.Context, userId int, habitId string, date time.Time) (*Override, error) {
	override, ok := s.overrides[key(userId, habitId, date)]
	if !ok {
		return nil, nil
	}
	return &override, nil
}

func (s *StubExceptionRepository) OverridesForDate(ctx context.Context, userId int, date time.Time) (map[string]Override, error) {
	overrides := make(map[string]Override)
	day := utils.FormatDate(date)
	for k, override := range s.overrides {
		if k.userId == userId && k.date == day {
			overrides[k.habitId] = override
		}
	}
	return overrides, nil
}

func (s *StubExceptionRepository) DeleteAllForHabit(ctx context.Context, habitId string) error {
	for k := range s.deletions {
		if k.habitId == habitId {
			delete(s.deletions, k)
		}
	}
	for k := range s.overrides {
		if k.habitId == habitId {
			delete(s.overrides, k)
		}
	}
	return nil
}

func (s *StubExceptionRepository) Cleanup() {
	s.deletions = map[stubKey]bool{}
	s.overrides = map[stubKey]Override{}
}
