package service

import (
	"github.com/dom/postboard/internal/config"
	"github.com/dom/postboard/internal/repository"
	"github.com/dom/postboard/internal/session"
)

type Services struct {
	Auth *AuthService
	Post *PostService
}

func NewServices(repos *repository.Repositories, sessions *session.Manager, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, sessions, cfg.BcryptCost),
		Post: NewPostService(repos.Post, repos.User),
	}
}
