package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const sessionCookie = "token"

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client. Redirects are not followed so the
// session cookie of every response can be inspected.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response types matching backend

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type LikeResult struct {
	PostID string `json:"postId"`
	Liked  bool   `json:"liked"`
	Likes  int    `json:"likes"`
}

// RegisterUser creates a new user account and returns its session token
func (c *APIClient) RegisterUser(baseName string) (*User, string, error) {
	suffix := time.Now().UnixNano() % 1000000
	body := map[string]interface{}{
		"username": fmt.Sprintf("%s_%d", baseName, suffix),
		"name":     baseName,
		"age":      30,
		"email":    fmt.Sprintf("%s_%d@example.com", strings.ToLower(baseName), suffix),
		"password": "testpassword123",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("register failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	token := tokenFrom(resp)
	if token == "" {
		return nil, "", fmt.Errorf("register response carried no session cookie")
	}
	return &user, token, nil
}

// CreatePost publishes a post as the owner of token
func (c *APIClient) CreatePost(token, title, content string) (*Post, error) {
	form := url.Values{"title": {title}, "content": {content}}
	resp, err := c.postForm("/post", form, token)
	if err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create post failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &post, nil
}

// ToggleLike flips the like of token's user on postID
func (c *APIClient) ToggleLike(token, postID string) (*LikeResult, error) {
	resp, err := c.postForm("/like/"+url.PathEscape(postID), nil, token)
	if err != nil {
		return nil, fmt.Errorf("like request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("like failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result LikeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func (c *APIClient) postForm(path string, form url.Values, token string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	return c.httpClient.Do(req)
}

func tokenFrom(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	return ""
}
