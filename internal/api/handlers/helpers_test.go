package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dom/postboard/internal/session"
	"github.com/steinfletcher/apitest"
)

// bodyContains asserts that the response body contains want.
func bodyContains(want string) apitest.Assert {
	return func(res *http.Response, _ *http.Request) error {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if !strings.Contains(string(body), want) {
			return fmt.Errorf("body %q does not contain %q", string(body), want)
		}
		return nil
	}
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}
