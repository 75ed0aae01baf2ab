package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/feedback-notes/internal/middleware"
	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/internal/services"
	"github.com/AnshRaj112/feedback-notes/internal/views"
)

// ShowUser renders a user's details and feedback. Any logged-in visitor may
// look; only the owner gets edit and delete controls.
func (h *Handler) ShowUser(w http.ResponseWriter, r *http.Request) {
	current := middleware.SessionFrom(r.Context()).Username
	if err := services.RequireSession(current); err != nil {
		h.flashRedirect(w, r, models.FlashWarning, "You must be logged in to view", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	username := chi.URLParam(r, "username")
	user, err := h.Identity.Get(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		h.flashRedirect(w, r, models.FlashWarning, "User not found.", "/")
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	feedback, err := h.Feedback.ListByUser(ctx, user.Username)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	p := h.page(r, user.Username)
	p.User = user
	p.Feedback = feedback
	h.Views.Render(w, http.StatusOK, views.UserPage, p)
}

// DeleteUser removes the logged-in user's account and all of their feedback.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	current := middleware.SessionFrom(r.Context()).Username
	username := chi.URLParam(r, "username")
	if err := services.AuthorizeUser(current, username); err != nil {
		h.flashRedirect(w, r, models.FlashWarning, "You must be logged in to delete your account", "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := h.Identity.Delete(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		// Already gone; drop the stale session.
		if err := h.Sessions.InvalidateUser(r, username); err != nil {
			log.Printf("⚠️  WARNING: failed to invalidate sessions of %q: %v", username, err)
		}
		h.flashRedirect(w, r, models.FlashWarning, "User not found.", "/login")
		return
	}
	if err != nil {
		h.fail(w, r, err, userURL(username))
		return
	}

	if err := h.Sessions.InvalidateUser(r, username); err != nil {
		log.Printf("⚠️  WARNING: failed to invalidate sessions of %q: %v", username, err)
	}
	if err := h.Activity.PurgeUser(ctx, username); err != nil {
		log.Printf("⚠️  WARNING: failed to purge activity of %q: %v", username, err)
	}
	// Kept after the purge as the account-closure record.
	h.record(r, username, models.ActionDeleteUser, 0)

	h.flashRedirect(w, r, models.FlashSuccess, "Your account has been deleted.", "/login")
}
