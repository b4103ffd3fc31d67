package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/repository"
	"github.com/google/uuid"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

type PostInput struct {
	Title   string
	Content string
}

func (in PostInput) validate() (PostInput, error) {
	out := PostInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
	if out.Title == "" || out.Content == "" {
		return out, domain.ErrEmptyPost
	}
	return out, nil
}

// Profile is a user together with the posts they own, newest first.
type Profile struct {
	User  *domain.User
	Posts []*domain.Post
}

func (s *PostService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetWithPosts(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Profile{User: user, Posts: user.Posts}, nil
}

func (s *PostService) Create(ctx context.Context, userID uuid.UUID, input PostInput) (*domain.Post, error) {
	input, err := input.validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post := &domain.Post{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   input.Title,
		Content: input.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// GetOwned returns the post if it exists and belongs to userID. A missing
// post is reported as ErrNotFound before ownership is considered.
func (s *PostService) GetOwned(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := post.AssertOwner(userID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, postID, userID uuid.UUID, input PostInput) (*domain.Post, error) {
	post, err := s.GetOwned(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	input, err = input.validate()
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateContent(ctx, post.ID, input.Title, input.Content); err != nil {
		return nil, err
	}
	post.Title = input.Title
	post.Content = input.Content
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	post, err := s.GetOwned(ctx, postID, userID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// ToggleLike flips userID's membership in the post's like-set.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	likes, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	post := domain.Post{ID: postID, Likes: likes}
	return &domain.LikeResult{
		PostID: postID,
		Liked:  post.LikedBy(userID),
		Likes:  post.LikeCount(),
	}, nil
}
