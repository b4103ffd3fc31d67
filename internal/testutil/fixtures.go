package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	username string
	name     string
	age      int
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
		username: "user_" + suffix,
		name:     "Test User",
		age:      30,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		Username:     b.username,
		Name:         b.name,
		Age:          b.age,
		PasswordHash: string(hashedPassword),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndAuthenticate registers the user through the API and returns the
// user and session token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]interface{}{
		"email":    b.email,
		"password": b.password,
		"username": b.username,
		"name":     b.name,
		"age":      b.age,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var userResp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatalf("register response carried no session cookie")
	}

	userID, _ := uuid.Parse(userResp.ID)
	user := &domain.User{
		ID:    userID,
		Email: userResp.Email,
		Name:  userResp.Name,
	}

	return user, token
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	owner     *domain.User
	title     string
	content   string
	likes     []uuid.UUID
	createdAt time.Time
}

// NewPostBuilder creates a new PostBuilder with default values
func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		title:     "Hi",
		content:   "world",
		createdAt: time.Now(),
	}
}

// WithOwner sets the owning user
func (b *PostBuilder) WithOwner(user *domain.User) *PostBuilder {
	b.owner = user
	return b
}

// WithTitle sets the title
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

// WithLikes seeds the like-set
func (b *PostBuilder) WithLikes(userIDs ...uuid.UUID) *PostBuilder {
	b.likes = userIDs
	return b
}

// WithCreatedAt sets the creation time
func (b *PostBuilder) WithCreatedAt(at time.Time) *PostBuilder {
	b.createdAt = at
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	if b.owner == nil {
		t.Fatalf("post builder requires an owner")
	}

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    b.owner.ID,
		Title:     b.title,
		Content:   b.content,
		Likes:     b.likes,
		CreatedAt: b.createdAt,
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}
