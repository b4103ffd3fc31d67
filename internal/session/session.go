// Package session issues and verifies the signed cookie that carries a
// user's identity and any pending flash messages between requests.
//
// Nothing is stored server side. A token is valid as long as its signature
// matches the configured secret and, when a TTL is configured, it has not
// expired.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dom/postboard/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "token"

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload of the session token. Email and UserID are empty for
// anonymous carriers that only hold flash messages.
type Claims struct {
	Email  string   `json:"email,omitempty"`
	UserID string   `json:"userId,omitempty"`
	Flash  []string `json:"flash,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() (domain.Identity, error) {
	if c.UserID == "" {
		return domain.Identity{}, ErrNoToken
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: bad user id", ErrInvalidToken)
	}
	return domain.Identity{Email: c.Email, UserID: userID}, nil
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager returns a Manager signing with secret. A zero ttl issues tokens
// without an expiry.
func NewManager(secret string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secureCookie,
		now:    time.Now,
	}
}

// Issue signs a token for id.
func (m *Manager) Issue(id domain.Identity) (string, error) {
	claims := m.newClaims()
	claims.Email = id.Email
	claims.UserID = id.UserID.String()
	claims.Subject = claims.UserID
	return m.sign(claims)
}

// Authenticate verifies raw and returns the identity it carries. It returns
// ErrNoToken when raw is empty or carries no identity and ErrInvalidToken
// for anything that fails verification.
func (m *Manager) Authenticate(raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Identity{}, ErrNoToken
	}
	claims, err := m.parse(raw)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.identity()
}

// FromRequest authenticates the session cookie of r.
func (m *Manager) FromRequest(r *http.Request) (domain.Identity, error) {
	return m.Authenticate(rawToken(r))
}

// SetToken stores an issued token in the session cookie.
func (m *Manager) SetToken(w http.ResponseWriter, token string) {
	m.setCookie(w, token)
}

// SignOut expires the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash queues messages for the next rendered response. The identity and
// expiry of an existing valid session are preserved.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	claims, err := m.parse(rawToken(r))
	if err != nil {
		claims = m.newClaims()
	}
	claims.Flash = append(claims.Flash, messages...)
	token, err := m.sign(claims)
	if err != nil {
		return err
	}
	m.setCookie(w, token)
	return nil
}

// PopFlashes returns the queued messages and rewrites the cookie without
// them, so each message is delivered once.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) ([]string, error) {
	claims, err := m.parse(rawToken(r))
	if err != nil || len(claims.Flash) == 0 {
		return nil, nil
	}
	flashes := claims.Flash
	claims.Flash = nil

	if claims.UserID == "" {
		m.SignOut(w)
		return flashes, nil
	}
	token, err := m.sign(claims)
	if err != nil {
		return nil, err
	}
	m.setCookie(w, token)
	return flashes, nil
}

func (m *Manager) newClaims() *Claims {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}
	return claims
}

func (m *Manager) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		cookie.Expires = m.now().Add(m.ttl)
	}
	http.SetCookie(w, cookie)
}

func rawToken(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
