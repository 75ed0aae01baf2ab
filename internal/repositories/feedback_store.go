package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

type FeedbackStore interface {
	Create(ctx context.Context, fb *models.Feedback) error
	Get(ctx context.Context, id int64) (*models.Feedback, error)
	// Update writes title and content only.
	Update(ctx context.Context, fb *models.Feedback) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, username string) ([]models.Feedback, error)
}

const (
	insertFeedbackQuery = `
		INSERT INTO feedback (title, content, username)
		VALUES ($1, $2, $3)
		RETURNING id`

	selectFeedbackQuery = `
		SELECT id, title, content, username
		FROM feedback WHERE id = $1`

	updateFeedbackQuery = `UPDATE feedback SET title = $1, content = $2 WHERE id = $3`

	deleteFeedbackQuery = `DELETE FROM feedback WHERE id = $1`

	listFeedbackQuery = `
		SELECT id, title, content, username
		FROM feedback WHERE username = $1
		ORDER BY id`
)

type PostgresFeedbackStore struct {
	db *sql.DB
}

func NewPostgresFeedbackStore(db *sql.DB) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{db: db}
}

// Create inserts fb and sets its generated ID. A missing owner is ErrUserNotFound.
func (s *PostgresFeedbackStore) Create(ctx context.Context, fb *models.Feedback) error {
	err := s.db.QueryRowContext(ctx, insertFeedbackQuery, fb.Title, fb.Content, fb.Username).Scan(&fb.ID)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrUserNotFound
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *PostgresFeedbackStore) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.db.QueryRowContext(ctx, selectFeedbackQuery, id).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("select feedback %d: %w", id, err)
	}
	return &fb, nil
}

func (s *PostgresFeedbackStore) Update(ctx context.Context, fb *models.Feedback) error {
	res, err := s.db.ExecContext(ctx, updateFeedbackQuery, fb.Title, fb.Content, fb.ID)
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", fb.ID, err)
	}
	return requireAffected(res, ErrFeedbackNotFound)
}

func (s *PostgresFeedbackStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, deleteFeedbackQuery, id)
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	return requireAffected(res, ErrFeedbackNotFound)
}

func (s *PostgresFeedbackStore) ListByUser(ctx context.Context, username string) ([]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, listFeedbackQuery, username)
	if err != nil {
		return nil, fmt.Errorf("list feedback of %q: %w", username, err)
	}
	defer rows.Close()

	feedback := make([]models.Feedback, 0)
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedback = append(feedback, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback of %q: %w", username, err)
	}
	return feedback, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
