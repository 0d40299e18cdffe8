package habit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateHabit(ctx context.Context, userId int, habit Habit) (Habit, error)
	GetHabit(ctx context.Context, userId int, habitId string) (Habit, error)
	GetAllHabits(ctx context.Context, userId int) ([]Habit, error)
	UpdateHabit(ctx context.Context, userId int, habit Habit) (Habit, error)
	DeleteHabit(ctx context.Context, userId int, habitId string) error
}

type HabitRepoImpl struct {
	db *pgxpool.Pool
}

func NewHabitRepo(db *pgxpool.Pool) *HabitRepoImpl {
	return &HabitRepoImpl{db: db}
}

const habitColumns = `id, name, icon, color, goal_amount, goal_unit, is_all_day, start_time, end_time,
				start_date, end_date, frequency, repeat_every, repeat_days`

func (r *HabitRepoImpl) CreateHabit(ctx context.Context, userId int, habit Habit) (Habit, error) {
	query := `INSERT INTO habits (id, user_id, name, icon, color, goal_amount, goal_unit, is_all_day,
				start_time, end_time, start_date, end_date, frequency, repeat_every, repeat_days)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		habit.Id,
		userId,
		habit.Name,
		habit.Icon,
		habit.Color,
		habit.GoalAmount,
		habit.GoalUnit,
		habit.IsAllDay,
		nullableTime(habit.StartTime),
		nullableTime(habit.EndTime),
		habit.StartDate,
		habit.EndDate,
		string(habit.Frequency),
		habit.RepeatEvery,
		toInt32Slice(habit.RepeatDays),
	)
	if err != nil {
		log.Errorf("failed to create habit: %v", err)
		return Habit{}, err
	}
	return habit, nil
}

func (r *HabitRepoImpl) GetHabit(ctx context.Context, userId int, habitId string) (Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 AND id = $2`
	row := r.db.QueryRow(ctx, query, userId, habitId)
	habit, err := scanHabit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Habit{}, ErrHabitNotFound
	} else if err != nil {
		log.Errorf("failed to get habit: %v", err)
		return Habit{}, err
	}
	return habit, nil
}

func (r *HabitRepoImpl) GetAllHabits(ctx context.Context, userId int) ([]Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to get habits: %v", err)
		return nil, err
	}
	defer rows.Close()
	habits := make([]Habit, 0, 10)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			log.Errorf("failed to scan habit: %v", err)
			return nil, err
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return habits, nil
}

func (r *HabitRepoImpl) UpdateHabit(ctx context.Context, userId int, habit Habit) (Habit, error) {
	query := `UPDATE habits SET name = $1, icon = $2, color = $3, goal_amount = $4, goal_unit = $5,
				is_all_day = $6, start_time = $7, end_time = $8, start_date = $9, end_date = $10,
				frequency = $11, repeat_every = $12, repeat_days = $13
				WHERE user_id = $14 AND id = $15`
	result, err := r.db.Exec(ctx, query,
		habit.Name,
		habit.Icon,
		habit.Color,
		habit.GoalAmount,
		habit.GoalUnit,
		habit.IsAllDay,
		nullableTime(habit.StartTime),
		nullableTime(habit.EndTime),
		habit.StartDate,
		habit.EndDate,
		string(habit.Frequency),
		habit.RepeatEvery,
		toInt32Slice(habit.RepeatDays),
		userId,
		habit.Id,
	)
	if err != nil {
		log.Errorf("failed to update habit: %v", err)
		return Habit{}, err
	}
	if result.RowsAffected() == 0 {
		return Habit{}, fmt.Errorf("habit %s: %w", habit.Id, ErrHabitNotFound)
	}
	return habit, nil
}

func (r *HabitRepoImpl) DeleteHabit(ctx context.Context, userId int, habitId string) error {
	query := `DELETE FROM habits WHERE user_id = $1 AND id = $2`
	result, err := r.db.Exec(ctx, query, userId, habitId)
	if err != nil {
		log.Errorf("failed to delete habit: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("habit %s: %w", habitId, ErrHabitNotFound)
	}
	return nil
}

func scanHabit(row pgx.Row) (Habit, error) {
	var habit Habit
	var startTime, endTime *string
	var frequency string
	var repeatDays []int32
	err := row.Scan(
		&habit.Id,
		&habit.Name,
		&habit.Icon,
		&habit.Color,
		&habit.GoalAmount,
		&habit.GoalUnit,
		&habit.IsAllDay,
		&startTime,
		&endTime,
		&habit.StartDate,
		&habit.EndDate,
		&frequency,
		&habit.RepeatEvery,
		&repeatDays,
	)
	if err != nil {
		return Habit{}, err
	}
	if startTime != nil {
		habit.StartTime = *startTime
	}
	if endTime != nil {
		habit.EndTime = *endTime
	}
	habit.Frequency = Frequency(frequency)
	habit.RepeatDays = make([]int, len(repeatDays))
	for i, d := range repeatDays {
		habit.RepeatDays[i] = int(d)
	}
	return habit, nil
}

func nullableTime(t string) *string {
	if t == "" {
		return nil
	}
	return &t
}

func toInt32Slice(days []int) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}
