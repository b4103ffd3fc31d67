package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dom/postboard/internal/api/middleware"
	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/web"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Age:      u.Age,
	}
}

func decodeRegister(r *http.Request) (RegisterRequest, error) {
	var req RegisterRequest
	if isJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostFormValue("username")
	req.Name = r.PostFormValue("name")
	req.Email = r.PostFormValue("email")
	req.Password = r.PostFormValue("password")
	if age := strings.TrimSpace(r.PostFormValue("age")); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return req, domain.ErrInvalidAge
		}
		req.Age = n
	}
	return req, nil
}

func decodeLogin(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if isJSONRequest(r) {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Email = r.PostFormValue("email")
	req.Password = r.PostFormValue("password")
	return req, nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logutil.GetOrDefault(r.Context()).With().Str("handler", "auth.Register").Logger()

	req, err := decodeRegister(r)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAge) {
			http.Error(w, "Age must be a non-negative number", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Name:     req.Name,
		Age:      req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			http.Error(w, "User already registered!", http.StatusConflict)
		case errors.Is(err, domain.ErrMissingCredentials):
			http.Error(w, "Email and password are required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidAge):
			http.Error(w, "Age must be a non-negative number", http.StatusBadRequest)
		case errors.Is(err, service.ErrPasswordTooLong):
			http.Error(w, "Password is too long", http.StatusBadRequest)
		default:
			log.Error().Err(err).Msg("failed to register user")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sessions.SetToken(w, result.Token)
	log.Info().Str("user_id", result.User.ID.String()).Msg("user registered")

	if wantsJSON(r) || isJSONRequest(r) {
		writeJSON(w, http.StatusCreated, newUserResponse(result.User))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("User Registered!"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logutil.GetOrDefault(r.Context()).With().Str("handler", "auth.Login").Logger()
	jsonClient := wantsJSON(r) || isJSONRequest(r)

	req, err := decodeLogin(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			if jsonClient {
				http.Error(w, "Invalid Credentials!", http.StatusUnauthorized)
				return
			}
			render(w, r, h.sessions, http.StatusUnauthorized, web.PageLogin, web.Page{
				Title: "Log in",
				Error: "Invalid Credentials!",
				Email: req.Email,
			})
		default:
			log.Error().Err(err).Msg("failed to log in")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sessions.SetToken(w, result.Token)

	if jsonClient {
		writeJSON(w, http.StatusOK, newUserResponse(result.User))
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
