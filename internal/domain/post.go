package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID                     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID                     `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string                        `json:"title" gorm:"not null"`
	Content   string                        `json:"content" gorm:"not null"`
	Likes     datatypes.JSONSlice[uuid.UUID] `json:"likes" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

// BeforeCreate keeps the like-set a JSON array so set operators apply.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Likes == nil {
		p.Likes = datatypes.JSONSlice[uuid.UUID]{}
	}
	return nil
}

// LikeCount is the size of the like-set.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AssertOwner returns ErrForbidden unless actingUserID owns the post.
func (p *Post) AssertOwner(actingUserID uuid.UUID) error {
	if p.UserID != actingUserID {
		return ErrForbidden
	}
	return nil
}

// LikeResult reports the state of a like-set after a toggle.
type LikeResult struct {
	PostID uuid.UUID `json:"postId"`
	Liked  bool      `json:"liked"`
	Likes  int       `json:"likes"`
}
