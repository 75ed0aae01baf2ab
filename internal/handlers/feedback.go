package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/feedback-notes/internal/forms"
	"github.com/AnshRaj112/feedback-notes/internal/middleware"
	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/internal/services"
	"github.com/AnshRaj112/feedback-notes/internal/views"
)

func (h *Handler) renderFeedbackForm(w http.ResponseWriter, r *http.Request, status int, title string, form forms.FeedbackForm, errs forms.Errors) {
	p := h.page(r, title)
	p.Form = form
	p.Errors = errs
	p.Action = r.URL.Path
	h.Views.Render(w, status, views.FeedbackPage, p)
}

// AddFeedback shows and handles the new feedback form of the logged-in user.
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	current := middleware.SessionFrom(r.Context()).Username
	username := chi.URLParam(r, "username")
	if err := services.AuthorizeUser(current, username); err != nil {
		h.flashRedirect(w, r, models.FlashWarning, "You must be logged in to add feedback", "/")
		return
	}

	if r.Method != http.MethodPost {
		h.renderFeedbackForm(w, r, http.StatusOK, "Add feedback", forms.FeedbackForm{}, nil)
		return
	}

	var form forms.FeedbackForm
	if err := forms.Decode(r, &form); err != nil {
		h.renderFeedbackForm(w, r, http.StatusUnprocessableEntity, "Add feedback", form, forms.Errors{"form": "Invalid form submission."})
		return
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderFeedbackForm(w, r, http.StatusUnprocessableEntity, "Add feedback", form, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	fb := models.NewFeedback(form.Title, form.Content, username)
	err := h.Feedback.Create(ctx, fb)
	if errors.Is(err, repositories.ErrUserNotFound) {
		h.flashRedirect(w, r, models.FlashWarning, "User not found.", "/")
		return
	}
	if err != nil {
		h.fail(w, r, err, userURL(username))
		return
	}

	h.record(r, username, models.ActionAddFeedback, fb.ID)
	h.flashRedirect(w, r, models.FlashSuccess, "Feedback added", userURL(username))
}

// loadOwnedFeedback resolves {id} to a feedback the current user may change.
// It answers the request itself and returns nil when that is not the case.
func (h *Handler) loadOwnedFeedback(ctx context.Context, w http.ResponseWriter, r *http.Request, denied string) *models.Feedback {
	current := middleware.SessionFrom(r.Context()).Username
	if err := services.RequireSession(current); err != nil {
		h.flashRedirect(w, r, models.FlashWarning, denied, "/")
		return nil
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.flashRedirect(w, r, models.FlashWarning, "Feedback not found.", "/")
		return nil
	}

	fb, err := h.Feedback.Get(ctx, id)
	if errors.Is(err, repositories.ErrFeedbackNotFound) {
		h.flashRedirect(w, r, models.FlashWarning, "Feedback not found.", "/")
		return nil
	}
	if err != nil {
		h.fail(w, r, err, userURL(current))
		return nil
	}

	if err := services.AuthorizeFeedback(current, fb); err != nil {
		h.flashRedirect(w, r, models.FlashWarning, denied, "/")
		return nil
	}
	return fb
}

// UpdateFeedback shows and handles the edit form. Only title and content change.
func (h *Handler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	fb := h.loadOwnedFeedback(ctx, w, r, "You do not have access to this feedback")
	if fb == nil {
		return
	}

	if r.Method != http.MethodPost {
		form := forms.FeedbackForm{Title: fb.Title, Content: fb.Content}
		h.renderFeedbackForm(w, r, http.StatusOK, "Edit feedback", form, nil)
		return
	}

	var form forms.FeedbackForm
	if err := forms.Decode(r, &form); err != nil {
		h.renderFeedbackForm(w, r, http.StatusUnprocessableEntity, "Edit feedback", form, forms.Errors{"form": "Invalid form submission."})
		return
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderFeedbackForm(w, r, http.StatusUnprocessableEntity, "Edit feedback", form, errs)
		return
	}

	fb.Apply(form.Title, form.Content)
	err := h.Feedback.Update(ctx, fb)
	if errors.Is(err, repositories.ErrFeedbackNotFound) {
		h.flashRedirect(w, r, models.FlashWarning, "Feedback not found.", "/")
		return
	}
	if err != nil {
		h.fail(w, r, err, userURL(fb.Username))
		return
	}

	h.record(r, fb.Username, models.ActionUpdateFeedback, fb.ID)
	h.flashRedirect(w, r, models.FlashSuccess, "Feedback updated", userURL(fb.Username))
}

// DeleteFeedback removes one feedback of the current user.
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	fb := h.loadOwnedFeedback(ctx, w, r, "You cannot delete feedback that isn't yours")
	if fb == nil {
		return
	}

	err := h.Feedback.Delete(ctx, fb.ID)
	if err != nil && !errors.Is(err, repositories.ErrFeedbackNotFound) {
		h.fail(w, r, err, userURL(fb.Username))
		return
	}

	h.record(r, fb.Username, models.ActionDeleteFeedback, fb.ID)
	h.flashRedirect(w, r, models.FlashSuccess, "Feedback deleted", userURL(fb.Username))
}
