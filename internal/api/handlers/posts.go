package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/postboard/internal/api/middleware"
	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/web"
	"github.com/go-chi/chi/v5"
)

const profilePath = "/profile"

type PostHandler struct {
	postService *service.PostService
	sessions    *session.Manager
}

func NewPostHandler(postService *service.PostService, sessions *session.Manager) *PostHandler {
	return &PostHandler{postService: postService, sessions: sessions}
}

// Profile lists the current user's posts.
func (h *PostHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	profile, err := h.postService.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "posts.Profile", err)
		return
	}

	render(w, r, h.sessions, http.StatusOK, web.PageProfile, web.Page{
		Title: "Profile",
		User:  profile.User,
		Posts: profile.Posts,
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, service.PostInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	})
	if err != nil {
		h.fail(w, r, "posts.Create", err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, post)
		return
	}
	h.flash(w, r, "Post created")
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	postID, err := parseID(chi.URLParam(r, "postId"))
	if err != nil {
		h.fail(w, r, "posts.EditForm", err)
		return
	}

	post, err := h.postService.GetOwned(r.Context(), postID, userID)
	if err != nil {
		h.fail(w, r, "posts.EditForm", err)
		return
	}

	render(w, r, h.sessions, http.StatusOK, web.PageEdit, web.Page{
		Title: "Edit post",
		Post:  post,
	})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	postID, err := parseID(chi.URLParam(r, "postId"))
	if err != nil {
		h.fail(w, r, "posts.Update", err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, service.PostInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	})
	if err != nil {
		h.fail(w, r, "posts.Update", err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, post)
		return
	}
	h.flash(w, r, "Post updated")
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	postID, err := parseID(chi.URLParam(r, "postId"))
	if err != nil {
		h.fail(w, r, "posts.Delete", err)
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		h.fail(w, r, "posts.Delete", err)
		return
	}

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.flash(w, r, "Post deleted")
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

// Like toggles the current user's like on a post. The post id comes from
// the path, or from the postId form field on POST /like.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	raw := chi.URLParam(r, "postId")
	if raw == "" {
		raw = r.FormValue("postId")
	}
	postID, err := parseID(raw)
	if err != nil {
		h.fail(w, r, "posts.Like", err)
		return
	}

	result, err := h.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		h.fail(w, r, "posts.Like", err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

func (h *PostHandler) flash(w http.ResponseWriter, r *http.Request, message string) {
	if err := h.sessions.AddFlash(w, r, message); err != nil {
		l := logutil.GetOrDefault(r.Context())
		l.Error().Err(err).Msg("failed to queue flash message")
	}
}

// fail maps service errors to responses. Internal detail is logged, never
// sent to the client.
func (h *PostHandler) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	log := logutil.GetOrDefault(r.Context()).With().Str("handler", handler).Logger()

	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Post not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		log.Warn().Msg("ownership check failed")
		http.Error(w, "Unauthorized action", http.StatusForbidden)
	case errors.Is(err, domain.ErrEmptyPost):
		http.Error(w, "Title and content are required", http.StatusBadRequest)
	case errors.Is(err, service.ErrUserNotFound):
		// The token outlived its user.
		log.Warn().Err(err).Msg("session user no longer exists")
		h.sessions.SignOut(w)
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
