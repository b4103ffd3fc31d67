package service_test

import (
	"context"
	"testing"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/repository/postgres"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(t *testing.T) (*service.PostService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewPostService(repos.Post, repos.User), testDB
}

func TestPostService_Create(t *testing.T) {
	postService, testDB := newPostService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	tests := []struct {
		name    string
		userID  uuid.UUID
		input   service.PostInput
		wantErr error
	}{
		{
			name:   "creates post",
			userID: owner.ID,
			input:  service.PostInput{Title: "Hi", Content: "world"},
		},
		{
			name:    "blank title",
			userID:  owner.ID,
			input:   service.PostInput{Title: "  ", Content: "world"},
			wantErr: domain.ErrEmptyPost,
		},
		{
			name:    "author no longer exists",
			userID:  uuid.New(),
			input:   service.PostInput{Title: "Hi", Content: "world"},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := postService.Create(ctx, tt.userID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, owner.ID, post.UserID)
			assert.Equal(t, 0, post.LikeCount())

			profile, err := postService.GetProfile(ctx, owner.ID)
			require.NoError(t, err)
			require.Len(t, profile.Posts, 1)
			assert.Equal(t, post.ID, profile.Posts[0].ID)
		})
	}
}

func TestPostService_Ownership(t *testing.T) {
	postService, testDB := newPostService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	intruder, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder().WithOwner(owner).Build(t, testDB.DB)

	tests := []struct {
		name    string
		postID  uuid.UUID
		userID  uuid.UUID
		wantErr error
	}{
		{name: "owner", postID: post.ID, userID: owner.ID},
		{name: "someone else", postID: post.ID, userID: intruder.ID, wantErr: domain.ErrForbidden},
		{name: "missing post reported before ownership", postID: uuid.New(), userID: intruder.ID, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := postService.GetOwned(ctx, tt.postID, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			_, err = postService.Update(ctx, tt.postID, tt.userID, service.PostInput{Title: "Hi", Content: "world"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("intruder cannot delete", func(t *testing.T) {
		err := postService.Delete(ctx, post.ID, intruder.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = postService.GetOwned(ctx, post.ID, owner.ID)
		assert.NoError(t, err)
	})
}

func TestPostService_Update(t *testing.T) {
	postService, testDB := newPostService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder().WithOwner(owner).Build(t, testDB.DB)

	updated, err := postService.Update(ctx, post.ID, owner.ID, service.PostInput{Title: " Hello ", Content: "there"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "there", updated.Content)

	_, err = postService.Update(ctx, post.ID, owner.ID, service.PostInput{Title: "Hello", Content: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyPost)

	got, err := postService.GetOwned(ctx, post.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "there", got.Content)
}

func TestPostService_Delete(t *testing.T) {
	postService, testDB := newPostService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder().WithOwner(owner).Build(t, testDB.DB)

	require.NoError(t, postService.Delete(ctx, post.ID, owner.ID))

	profile, err := postService.GetProfile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Posts)

	assert.ErrorIs(t, postService.Delete(ctx, post.ID, owner.ID), domain.ErrNotFound)
}

func TestPostService_ToggleLike(t *testing.T) {
	postService, testDB := newPostService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder().WithOwner(owner).Build(t, testDB.DB)
	liker, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := postService.ToggleLike(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.Likes)

	second, err := postService.ToggleLike(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.Likes)

	// Owners may like their own posts.
	own, err := postService.ToggleLike(ctx, post.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, own.Liked)

	_, err = postService.ToggleLike(ctx, uuid.New(), liker.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostService_GetProfileUnknownUser(t *testing.T) {
	postService, _ := newPostService(t)

	_, err := postService.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
