package services

import (
	"errors"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)

// RequireSession passes for any logged-in user.
func RequireSession(current string) error {
	if current == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// AuthorizeUser allows acting on an account (delete it, add feedback to it)
// only as that account.
func AuthorizeUser(current, target string) error {
	if err := RequireSession(current); err != nil {
		return err
	}
	if current != target {
		return ErrForbidden
	}
	return nil
}

// AuthorizeFeedback allows editing or deleting feedback only for its owner.
func AuthorizeFeedback(current string, fb *models.Feedback) error {
	if err := RequireSession(current); err != nil {
		return err
	}
	if fb == nil || fb.Username != current {
		return ErrForbidden
	}
	return nil
}
