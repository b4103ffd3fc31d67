package handlers

import (
	"net/http"

	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/web"
)

type PageHandler struct {
	sessions *session.Manager
}

func NewPageHandler(sessions *session.Manager) *PageHandler {
	return &PageHandler{sessions: sessions}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.sessions, http.StatusOK, web.PageIndex, web.Page{Title: "Home"})
}

func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.sessions, http.StatusOK, web.PageLogin, web.Page{Title: "Log in"})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Sorry, page not found", http.StatusNotFound)
}
