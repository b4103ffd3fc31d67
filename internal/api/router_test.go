package api_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(t *testing.T, client *http.Client, target string, form url.Values, token string, accept string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestRouter_PostLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NoRedirectClient()

	_, aliceToken := testutil.NewUserBuilder().WithName("Alice").BuildAndAuthenticate(t, ts)
	_, bobToken := testutil.NewUserBuilder().WithName("Bob").BuildAndAuthenticate(t, ts)

	resp := postForm(t, client, ts.URL("/post"), url.Values{"title": {"Hi"}, "content": {"world"}}, aliceToken, "application/json")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post domain.Post
	testutil.AssertJSONResponse(t, resp, &post)
	assert.Equal(t, "Hi", post.Title)

	like := func(token string) domain.LikeResult {
		resp := postForm(t, client, ts.URL("/like/"+post.ID.String()), nil, token, "application/json")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result domain.LikeResult
		testutil.AssertJSONResponse(t, resp, &result)
		return result
	}

	assert.Equal(t, domain.LikeResult{PostID: post.ID, Liked: true, Likes: 1}, like(bobToken))
	assert.Equal(t, domain.LikeResult{PostID: post.ID, Liked: true, Likes: 2}, like(aliceToken))
	assert.Equal(t, domain.LikeResult{PostID: post.ID, Liked: false, Likes: 1}, like(bobToken))

	editResp := postForm(t, client, ts.URL("/edit/"+post.ID.String()), url.Values{"title": {"x"}, "content": {"y"}}, bobToken, "")
	defer editResp.Body.Close()
	testutil.AssertErrorResponse(t, editResp, http.StatusForbidden, "Unauthorized action")

	req, err := http.NewRequest(http.MethodGet, ts.URL("/delete/"+post.ID.String()), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: aliceToken})
	delResp, err := client.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	testutil.AssertRedirect(t, delResp, "/profile")

	goneResp := postForm(t, client, ts.URL("/like/"+post.ID.String()), nil, bobToken, "")
	defer goneResp.Body.Close()
	testutil.AssertErrorResponse(t, goneResp, http.StatusNotFound, "Post not found")
}

func TestRouter_ConcurrentLikes(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NoRedirectClient()

	owner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	post := testutil.NewPostBuilder().WithOwner(owner).Build(t, ts.DB.DB)

	const likers = 8
	tokens := make([]string, likers)
	for i := range tokens {
		_, tokens[i] = testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	}

	var wg sync.WaitGroup
	statuses := make(chan int, likers)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, ts.URL("/like/"+post.ID.String()), nil)
			if err != nil {
				statuses <- 0
				return
			}
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
			resp, err := client.Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}(token)
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusSeeOther, status)
	}

	got, err := ts.Repos.Post.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, got.LikeCount())
}

func TestRouter_RedirectsAnonymousToLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NoRedirectClient()

	resp, err := client.Get(ts.URL("/profile"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertRedirect(t, resp, "/login")
}
