package habit

import (
	"context"
	"sort"
)

type stubKey struct {
	userId  int
	habitId string
}

type StubHabitRepository struct {
	data map[stubKey]Habit
}

func NewStubHabitRepository() *StubHabitRepository {
	return &StubHabitRepository{data: map[stubKey]Habit{}}
}

func (s *StubHabitRepository) CreateHabit(ctx context.Context, userId int, habit Habit) (Habit, error) {
	s.data[stubKey{userId, habit.Id}] = habit
	return habit, nil
}

func (s *StubHabitRepository) GetHabit(ctx context.Context, userId int, habitId string) (Habit, error) {
	habit, ok := s.data[stubKey{userId, habitId}]
	if !ok {
		return Habit{}, ErrHabitNotFound
	}
	return habit, nil
}

func (s *StubHabitRepository) GetAllHabits(ctx context.Context, userId int) ([]Habit, error) {
	habits := make([]Habit, 0, len(s.data))
	for key, habit := range s.data {
		if key.userId == userId {
			habits = append(habits, habit)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}

func (s *StubHabitRepository) UpdateHabit(ctx context.Context, userId int, habit Habit) (Habit, error) {
	key := stubKey{userId, habit.Id}
	if _, ok := s.data[key]; !ok {
		return Habit{}, ErrHabitNotFound
	}
	s.data[key] = habit
	return habit, nil
}

func (s *StubHabitRepository) DeleteHabit(ctx context.Context, userId int, habitId string) error {
	key := stubKey{userId, habitId}
	if _, ok := s.data[key]; !ok {
		return ErrHabitNotFound
	}
	delete(s.data, key)
	return nil
}

func (s *StubHabitRepository) Cleanup() {
	s.data = map[stubKey]Habit{}
}
