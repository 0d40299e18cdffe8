package progress

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

type StubProgressRepository struct {
	data map[stubKey]int
}

func NewStubProgressRepository() *StubProgressRepository {
	return &StubProgressRepository{data: map[stubKey]int{}}
}

func (s *StubProgressRepository) Get(ctx context.Context, userId int, habitId string, date time.Time) (Record, error) {
	amount := s.data[stubKey{userId, habitId, utils.FormatDate(date)}]
	return Record{HabitId: habitId, Date: date, Amount: amount}, nil
}

func (s *StubProgressRepository) Upsert(ctx context.Context, userId int, record Record) error {
	s.data[stubKey{userId, record.HabitId, utils.FormatDate(record.Date)}] = record.Amount
	return nil
}

func (s *StubProgressRepository) ForDate(ctx context.Context, userId int, date time.Time) (map[string]int, error) {
	amounts := make(map[string]int)
	day := utils.FormatDate(date)
	for k, amount := range s.data {
		if k.userId == userId && k.date == day {
			amounts[k.habitId] = amount
		}
	}
	return amounts, nil
}

func (s *StubProgressRepository) DeleteAllForHabit(ctx context.Context, habitId string) error {
	for k := range s.data {
		if k.habitId == habitId {
			delete(s.data, k)
		}
	}
	return nil
}

func (s *StubProgressRepository) Cleanup() {
	s.data = map[stubKey]int{}
}
