package postgres

import (
	"context"

	"github.com/dom/postboard/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// toggleLikeSQL flips membership of a user id in the jsonb like-set. The row
// lock taken by UPDATE serialises concurrent toggles on the same post, and
// each one re-evaluates against the latest committed like-set.
const toggleLikeSQL = `
UPDATE posts
SET likes = CASE
		WHEN likes @> jsonb_build_array(?::text) THEN likes - ?::text
		ELSE likes || jsonb_build_array(?::text)
	END,
	updated_at = now()
WHERE id = ?
RETURNING likes`

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error) {
	var row struct {
		Likes datatypes.JSONSlice[uuid.UUID]
	}
	uid := userID.String()
	res := r.db.WithContext(ctx).Raw(toggleLikeSQL, uid, uid, uid, postID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return row.Likes, nil
}
