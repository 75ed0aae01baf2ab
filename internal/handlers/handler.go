package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/AnshRaj112/feedback-notes/internal/middleware"
	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/internal/services"
	"github.com/AnshRaj112/feedback-notes/internal/views"
	"github.com/AnshRaj112/feedback-notes/pkg/clientip"
)

const (
	requestTimeout  = 5 * time.Second
	activityTimeout = 2 * time.Second
)

// Handler serves the HTML pages. Each request works on its own session taken
// from the request context.
type Handler struct {
	Identity   *services.IdentityService
	Feedback   repositories.FeedbackStore
	Sessions   *middleware.Sessions
	Activity   services.ActivityLog
	Views      *views.Renderer
	TrustProxy bool
}

func userURL(username string) string {
	return "/users/" + url.PathEscape(username)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// page prepares the data shared by every template and consumes pending flashes.
func (h *Handler) page(r *http.Request, title string) views.Page {
	return views.Page{
		Title:       title,
		CurrentUser: middleware.SessionFrom(r.Context()).Username,
		Flashes:     h.Sessions.Flashes(r),
	}
}

func (h *Handler) flashRedirect(w http.ResponseWriter, r *http.Request, category, message, target string) {
	h.Sessions.Flash(r, category, message)
	redirect(w, r, target)
}

// fail logs an unexpected error. With a target the visitor is redirected
// there with a generic flash, otherwise an error page is rendered.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, target string) {
	log.Printf("ERROR: %s %s [%s]: %v", r.Method, r.URL.Path, middleware.RequestIDFrom(r.Context()), err)
	if target != "" {
		h.flashRedirect(w, r, models.FlashDanger, "Something went wrong. Please try again.", target)
		return
	}
	h.Views.Render(w, http.StatusInternalServerError, views.ErrorPage, h.page(r, "Error"))
}

// record writes an activity event. It never fails the request.
func (h *Handler) record(r *http.Request, username string, action models.ActivityAction, feedbackID int64) {
	ctx, cancel := context.WithTimeout(r.Context(), activityTimeout)
	defer cancel()

	err := h.Activity.Record(ctx, models.ActivityEvent{
		RequestID:  middleware.RequestIDFrom(r.Context()),
		Username:   username,
		Action:     action,
		FeedbackID: feedbackID,
		IPAddress:  clientip.RealClientIP(r, h.TrustProxy),
	})
	if err != nil {
		log.Printf("⚠️  WARNING: failed to record %s for %q: %v", action, username, err)
	}
}

// Health answers load balancer probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
