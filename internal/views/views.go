// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/AnshRaj112/feedback-notes/internal/forms"
	"github.com/AnshRaj112/feedback-notes/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names
const (
	RegisterPage = "register.html"
	LoginPage    = "login.html"
	UserPage     = "user.html"
	FeedbackPage = "feedback_form.html"
	ErrorPage    = "error.html"
)

// Page is the data every template receives.
type Page struct {
	Title       string
	CurrentUser string
	Flashes     []models.Flash

	Form   interface{}
	Errors forms.Errors
	// Action is the URL a form posts back to.
	Action string

	User     *models.User
	Feedback []models.Feedback
}

// IsOwner reports whether the viewer owns the displayed user page.
func (p Page) IsOwner() bool {
	return p.User != nil && p.CurrentUser != "" && p.CurrentUser == p.User.Username
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, path := range names {
		if path == layoutFile {
			continue
		}
		tmpl, err := template.ParseFS(fsys, layoutFile, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		r.pages[path[len("templates/"):]] = tmpl
	}
	return r, nil
}

// Render executes the named page inside the layout and writes it with status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		log.Printf("ERROR: unknown template %q", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Printf("ERROR: failed to render %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
