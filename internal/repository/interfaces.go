package repository

import (
	"context"

	"github.com/dom/postboard/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetWithPosts loads the user together with their posts, newest first.
	GetWithPosts(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)
	UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleLike adds userID to the post's like-set, or removes it when it
	// is already there, in a single atomic statement. It returns the
	// resulting like-set.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error)
}

type Repositories struct {
	User UserRepository
	Post PostRepository
}
