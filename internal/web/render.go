// Package web renders the HTML pages served by the application.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/dom/postboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex   = "index.html"
	PageLogin   = "login.html"
	PageProfile = "profile.html"
	PageEdit    = "edit.html"
)

var pages = parsePages(PageIndex, PageLogin, PageProfile, PageEdit)

// Page is the data handed to every template.
type Page struct {
	Title    string
	Identity *domain.Identity
	Flashes  []string
	Error    string

	// Login form
	Email string

	// Profile
	User  *domain.User
	Posts []*domain.Post

	// Edit form
	Post *domain.Post
}

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return out
}

// Render executes the named page into a buffer first so a template failure
// never produces a half written response.
func Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := pages[name]
	if !ok {
		return &UnknownPageError{Name: name}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// WriteError reports a failure to send a page whose header was already
// written. Nothing more can be sent on that response.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return "write page: " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type UnknownPageError struct {
	Name string
}

func (e *UnknownPageError) Error() string {
	return "unknown page " + e.Name
}
