package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Posts []*Post `json:"posts,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Identity is the set of claims carried by a session token.
type Identity struct {
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"userId"`
}

func (u *User) Identity() Identity {
	return Identity{Email: u.Email, UserID: u.ID}
}
