package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, display_name, timezone, week_first_day)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Username,
		user.DisplayName,
		user.Settings.Timezone,
		user.Settings.WeekFirstDay,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, username, display_name, timezone, week_first_day FROM users WHERE id = $1`
	var user User
	err := u.db.QueryRow(ctx, query, id).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Username,
			&user.DisplayName,
			&user.Settings.Timezone,
			&user.Settings.WeekFirstDay,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, username, display_name, timezone, week_first_day FROM users WHERE uid = $1`
	var user User
	err := u.db.QueryRow(ctx, query, uid).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Username,
			&user.DisplayName,
			&user.Settings.Timezone,
			&user.Settings.WeekFirstDay,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("user with uid %s not found", uid)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET display_name = $1, timezone = $2, week_first_day = $3 WHERE id = $4`
	result, err := u.db.Exec(ctx, query,
		user.DisplayName,
		user.Settings.Timezone,
		user.Settings.WeekFirstDay,
		userId,
	)
	if err != nil {
		return User{}, err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of updating user")
		return User{}, fmt.Errorf("user with id %d: %w", userId, ErrUserNotFound)
	}
	user.Id = userId
	return user, nil
}

func (u *UserRepoImpl) DeleteUser(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := u.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of deleting user")
		return fmt.Errorf("user with id %d: %w", id, ErrUserNotFound)
	}
	return nil
}

func (u *UserRepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT id, uid, username, display_name, timezone, week_first_day FROM users`
	rows, err := u.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to get users: %v", err)
		return nil, err
	}
	defer rows.Close()
	users := make([]User, 0, 10)
	for rows.Next() {
		var user User
		err := rows.Scan(&user.Id, &user.Uid, &user.Username, &user.DisplayName, &user.Settings.Timezone,
			&user.Settings.WeekFirstDay)
		if err != nil {
			log.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return users, nil
}

func (u *UserRepoImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = $1`
	var count int
	err := u.db.QueryRow(ctx, query, username).Scan(&count)
	if err != nil {
		log.Errorf("failed to check username availability: %v", err)
		return false, err
	}
	return count == 0, nil
}
