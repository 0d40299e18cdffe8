package exception

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	AddDeletion(ctx context.Context, userId int, habitId string, date time.Time) error
	RemoveDeletion(ctx context.Context, userId int, habitId string, date time.Time) error
	IsDeleted(ctx context.Context, userId int, habitId string, date time.Time) (bool, error)
	DeletedHabitIds(ctx context.Context, userId int, date time.Time) (map[string]bool, error)
	StoreOverride(ctx context.Context, userId int, override Override) error
	FindOverride(ctx context.Context, userId int, habitId string, date time.Time) (*Override, error)
	OverridesForDate(ctx context.Context, userId int, date time.Time) (map[string]Override, error)
	DeleteAllForHabit(ctx context.Context, habitId string) error
}

type ExceptionRepoImpl struct {
	db *pgxpool.Pool
}

func NewExceptionRepo(db *pgxpool.Pool) *ExceptionRepoImpl {
	return &ExceptionRepoImpl{db: db}
}

func (r *ExceptionRepoImpl) AddDeletion(ctx context.Context, userId int, habitId string, date time.Time) error {
	query := `INSERT INTO habit_deletions (user_id, habit_id, date) VALUES ($1, $2, $3)
				ON CONFLICT (habit_id, date) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userId, habitId, date)
	if err != nil {
		log.Errorf("failed to add deletion marker: %v", err)
		return err
	}
	return nil
}

func (r *ExceptionRepoImpl) RemoveDeletion(ctx context.Context, userId int, habitId string, date time.Time) error {
	query := `DELETE FROM habit_deletions WHERE user_id = $1 AND habit_id = $2 AND date = $3`
	_, err := r.db.Exec(ctx, query, userId, habitId, date)
	if err != nil {
		log.Errorf("failed to remove deletion marker: %v", err)
		return err
	}
	return nil
}

func (r *ExceptionRepoImpl) IsDeleted(ctx context.Context, userId int, habitId string, date time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM habit_deletions WHERE user_id = $1 AND habit_id = $2 AND date = $3`
	var count int
	if err := r.db.QueryRow(ctx, query, userId, habitId, date).Scan(&count); err != nil {
		log.Errorf("failed to check deletion marker: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *ExceptionRepoImpl) DeletedHabitIds(ctx context.Context, userId int, date time.Time) (map[string]bool, error) {
	query := `SELECT habit_id FROM habit_deletions WHERE user_id = $1 AND date = $2`
	rows, err := r.db.Query(ctx, query, userId, date)
	if err != nil {
		log.Errorf("failed to get deletion markers: %v", err)
		return nil, err
	}
	defer rows.Close()
	deleted := make(map[string]bool)
	for rows.Next() {
		var habitId string
		if err := rows.Scan(&habitId); err != nil {
			return nil, err
		}
		deleted[habitId] = true
	}
	return deleted, rows.Err()
}

func (r *ExceptionRepoImpl) StoreOverride(ctx context.Context, userId int, override Override) error {
	query := `INSERT INTO habit_overrides (user_id, habit_id, date, name, icon, color, goal_amount,
				goal_unit, is_all_day, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				ON CONFLICT (habit_id, date) DO UPDATE SET
				name = EXCLUDED.name, icon = EXCLUDED.icon, color = EXCLUDED.color,
				goal_amount = EXCLUDED.goal_amount, goal_unit = EXCLUDED.goal_unit,
				is_all_day = EXCLUDED.is_all_day, start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time`
	_, err := r.db.Exec(ctx, query,
		userId,
		override.HabitId,
		override.Date,
		override.Name,
		override.Icon,
		override.Color,
		override.GoalAmount,
		override.GoalUnit,
		override.IsAllDay,
		override.StartTime,
		override.EndTime,
	)
	if err != nil {
		log.Errorf("failed to store override: %v", err)
		return err
	}
	return nil
}

const overrideColumns = `habit_id, date, name, icon, color, goal_amount, goal_unit, is_all_day, start_time, end_time`

func (r *ExceptionRepoImpl) FindOverride(ctx context.Context, userId int, habitId string, date time.Time) (*Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM habit_overrides
				WHERE user_id = $1 AND habit_id = $2 AND date = $3`
	row := r.db.QueryRow(ctx, query, userId, habitId, date)
	override, err := scanOverride(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		log.Errorf("failed to get override: %v", err)
		return nil, err
	}
	return &override, nil
}

func (r *ExceptionRepoImpl) OverridesForDate(ctx context.Context, userId int, date time.Time) (map[string]Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM habit_overrides WHERE user_id = $1 AND date = $2`
	rows, err := r.db.Query(ctx, query, userId, date)
	if err != nil {
		log.Errorf("failed to get overrides: %v", err)
		return nil, err
	}
	defer rows.Close()
	overrides := make(map[string]Override)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			log.Errorf("failed to scan override: %v", err)
			return nil, err
		}
		overrides[override.HabitId] = override
	}
	return overrides, rows.Err()
}

// DeleteAllForHabit purges both deletion markers and overrides of a habit.
// Called from the habit deletion cascade, so it is not scoped by user.
func (r *ExceptionRepoImpl) DeleteAllForHabit(ctx context.Context, habitId string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM habit_deletions WHERE habit_id = $1`, habitId); err != nil {
		log.Errorf("failed to purge deletion markers: %v", err)
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM habit_overrides WHERE habit_id = $1`, habitId); err != nil {
		log.Errorf("failed to purge overrides: %v", err)
		return err
	}
	return nil
}

func scanOverride(row pgx.Row) (Override, error) {
	var override Override
	err := row.Scan(
		&override.HabitId,
		&override.Date,
		&override.Name,
		&override.Icon,
		&override.Color,
		&override.GoalAmount,
		&override.GoalUnit,
		&override.IsAllDay,
		&override.StartTime,
		&override.EndTime,
	)
	if err != nil {
		return Override{}, err
	}
	return override, nil
}
