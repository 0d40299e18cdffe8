package progress

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Get(ctx context.Context, userId int, habitId string, date time.Time) (Record, error)
	Upsert(ctx context.Context, userId int, record Record) error
	ForDate(ctx context.Context, userId int, date time.Time) (map[string]int, error)
	DeleteAllForHabit(ctx context.Context, habitId string) error
}

type ProgressRepoImpl struct {
	db *pgxpool.Pool
}

func NewProgressRepo(db *pgxpool.Pool) *ProgressRepoImpl {
	return &ProgressRepoImpl{db: db}
}

// Get returns the logged amount for an occurrence. A missing row is not an
// error, it reads as a zero amount.
func (r *ProgressRepoImpl) Get(ctx context.Context, userId int, habitId string, date time.Time) (Record, error) {
	query := `SELECT amount FROM habit_progress WHERE user_id = $1 AND habit_id = $2 AND date = $3`
	record := Record{HabitId: habitId, Date: date}
	err := r.db.QueryRow(ctx, query, userId, habitId, date).Scan(&record.Amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return record, nil
	} else if err != nil {
		log.Errorf("failed to get progress: %v", err)
		return Record{}, err
	}
	return record, nil
}

func (r *ProgressRepoImpl) Upsert(ctx context.Context, userId int, record Record) error {
	query := `INSERT INTO habit_progress (user_id, habit_id, date, amount) VALUES ($1, $2, $3, $4)
				ON CONFLICT (habit_id, date) DO UPDATE SET amount = EXCLUDED.amount`
	_, err := r.db.Exec(ctx, query, userId, record.HabitId, record.Date, record.Amount)
	if err != nil {
		log.Errorf("failed to store progress: %v", err)
		return err
	}
	return nil
}

func (r *ProgressRepoImpl) ForDate(ctx context.Context, userId int, date time.Time) (map[string]int, error) {
	query := `SELECT habit_id, amount FROM habit_progress WHERE user_id = $1 AND date = $2`
	rows, err := r.db.Query(ctx, query, userId, date)
	if err != nil {
		log.Errorf("failed to get progress records: %v", err)
		return nil, err
	}
	defer rows.Close()
	amounts := make(map[string]int)
	for rows.Next() {
		var habitId string
		var amount int
		if err := rows.Scan(&habitId, &amount); err != nil {
			return nil, err
		}
		amounts[habitId] = amount
	}
	return amounts, rows.Err()
}

// DeleteAllForHabit purges all progress of a habit. Called from the habit
// deletion cascade, so it is not scoped by user.
func (r *ProgressRepoImpl) DeleteAllForHabit(ctx context.Context, habitId string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM habit_progress WHERE habit_id = $1`, habitId)
	if err != nil {
		log.Errorf("failed to purge progress: %v", err)
		return err
	}
	return nil
}
