package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/session"
	"github.com/google/uuid"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

const LoginPath = "/login"

// Auth admits requests carrying a valid session cookie and attaches the
// identity to the request context. Everything else is redirected to the
// login page; a cookie that fails verification is also cleared.
func Auth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := sessions.FromRequest(r)
			if err != nil {
				log := logutil.GetOrDefault(r.Context())
				if errors.Is(err, session.ErrInvalidToken) {
					log.Warn().Err(err).Msg("rejected session token")
					sessions.SignOut(w)
				} else {
					log.Debug().Msg("no session token")
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			logger := logutil.GetOrDefault(ctx).With().Str("user_id", identity.UserID.String()).Logger()
			ctx = logutil.WithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentity(ctx)
	return identity.UserID, ok
}
