package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/AnshRaj112/feedback-notes/internal/forms"
	"github.com/AnshRaj112/feedback-notes/internal/middleware"
	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/internal/services"
	"github.com/AnshRaj112/feedback-notes/internal/views"
)

const invalidCredentialsMessage = "Invalid username/password."

// Home sends visitors to the registration page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/register")
}

// redirectIfLoggedIn sends an authenticated visitor to their own page.
func redirectIfLoggedIn(w http.ResponseWriter, r *http.Request) bool {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() {
		return false
	}
	redirect(w, r, userURL(sess.Username))
	return true
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form forms.RegisterForm, errs forms.Errors) {
	p := h.page(r, "Register")
	p.Form = form
	p.Errors = errs
	h.Views.Render(w, status, views.RegisterPage, p)
}

func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if redirectIfLoggedIn(w, r) {
		return
	}
	h.renderRegister(w, r, http.StatusOK, forms.RegisterForm{}, nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if redirectIfLoggedIn(w, r) {
		return
	}

	var form forms.RegisterForm
	if err := forms.Decode(r, &form); err != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, forms.Errors{"form": "Invalid form submission."})
		return
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.Identity.Register(ctx, form.Username, form.Password, form.Email, form.FirstName, form.LastName)
	switch {
	case errors.Is(err, repositories.ErrUsernameTaken):
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, forms.Errors{"username": "Username already taken."})
		return
	case errors.Is(err, repositories.ErrEmailTaken):
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, forms.Errors{"email": "Email already registered."})
		return
	case err != nil:
		h.fail(w, r, err, "")
		return
	}

	if err := h.Sessions.Login(w, r, user.Username); err != nil {
		// The account exists; the visitor can still log in by hand.
		h.fail(w, r, err, "/login")
		return
	}
	h.record(r, user.Username, models.ActionRegister, 0)
	h.flashRedirect(w, r, models.FlashSuccess, "Welcome, "+user.FirstName+"!", userURL(user.Username))
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.LoginForm, errs forms.Errors) {
	p := h.page(r, "Log in")
	form.Password = ""
	p.Form = form
	p.Errors = errs
	h.Views.Render(w, status, views.LoginPage, p)
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if redirectIfLoggedIn(w, r) {
		return
	}
	h.renderLogin(w, r, http.StatusOK, forms.LoginForm{}, nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if redirectIfLoggedIn(w, r) {
		return
	}

	var form forms.LoginForm
	if err := forms.Decode(r, &form); err != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, forms.Errors{"username": invalidCredentialsMessage})
		return
	}
	if errs := forms.Validate(form); errs.Any() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.Identity.Authenticate(ctx, form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.record(r, form.Username, models.ActionLoginFailed, 0)
		h.renderLogin(w, r, http.StatusUnauthorized, form, forms.Errors{"username": invalidCredentialsMessage})
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	if err := h.Sessions.Login(w, r, user.Username); err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.record(r, user.Username, models.ActionLogin, 0)
	redirect(w, r, userURL(user.Username))
}

// Logout ends the session. Anonymous visitors are simply sent to /login.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if sess.Authenticated() {
		username := sess.Username
		if err := h.Sessions.Logout(r); err != nil {
			h.fail(w, r, err, "/login")
			return
		}
		h.record(r, username, models.ActionLogout, 0)
	}
	redirect(w, r, "/login")
}
