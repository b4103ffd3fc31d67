package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/dom/postboard/internal/api/middleware"
	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/web"
	"github.com/google/uuid"
)

// isJSONRequest reports whether the request body is JSON.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseID parses a path or form identifier. Malformed identifiers cannot
// name a stored document, so they are reported as ErrNotFound.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

// render pops pending flash messages into page and writes the template.
func render(w http.ResponseWriter, r *http.Request, sessions *session.Manager, status int, name string, page web.Page) {
	log := logutil.GetOrDefault(r.Context())

	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		page.Identity = &identity
	}

	flashes, err := sessions.PopFlashes(w, r)
	if err != nil {
		log.Error().Err(err).Msg("failed to pop flash messages")
	}
	page.Flashes = append(page.Flashes, flashes...)

	if err := web.Render(w, status, name, page); err != nil {
		var writeErr *web.WriteError
		if errors.As(err, &writeErr) {
			log.Warn().Err(err).Str("page", name).Msg("client went away mid page")
			return
		}
		log.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
