package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// DeleteWithFeedback removes the user and every feedback row it owns atomically.
	DeleteWithFeedback(ctx context.Context, username string) error
}

const (
	insertUserQuery = `
		INSERT INTO users (username, password, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)`

	selectUserQuery = `
		SELECT username, password, email, first_name, last_name
		FROM users WHERE username = $1`

	deleteUserFeedbackQuery = `DELETE FROM feedback WHERE username = $1`
	deleteUserQuery         = `DELETE FROM users WHERE username = $1`
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Insert persists a new user. Duplicate usernames and emails surface as
// ErrUsernameTaken and ErrEmailTaken.
func (s *PostgresUserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, insertUserQuery,
		user.Username, user.Password, user.Email, user.FirstName, user.LastName)
	if err == nil {
		return nil
	}

	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
		switch pqErr.Constraint {
		case usersPkeyConstraint:
			return ErrUsernameTaken
		case usersEmailKeyConstraint:
			return ErrEmailTaken
		}
	}
	return fmt.Errorf("insert user %q: %w", user.Username, err)
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, selectUserQuery, username).
		Scan(&u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

func (s *PostgresUserStore) DeleteWithFeedback(ctx context.Context, username string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	// Dependent rows first; the foreign key has no ON DELETE CASCADE.
	if _, err = tx.ExecContext(ctx, deleteUserFeedbackQuery, username); err != nil {
		return fmt.Errorf("delete feedback of %q: %w", username, err)
	}

	res, err := tx.ExecContext(ctx, deleteUserQuery, username)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user %q: %w", username, err)
	}
	return nil
}
