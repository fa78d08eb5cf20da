package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"blog_app/internal/flash"
	"blog_app/internal/handlers"
	"blog_app/internal/logger"
	"blog_app/internal/repository"
	"blog_app/internal/repository/db"
	"blog_app/internal/service"
	"blog_app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const e2eSecret = "e2e-secret-0123456789abcdef"

// newBlogServer runs the full stack over a temporary sqlite file.
func newBlogServer(t *testing.T, sessionOpts ...session.Option) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	conn, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "blog.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	services := service.NewService(repository.NewRepository(conn), log)
	sessions, err := session.NewManager(services.Authorization, sessionOpts...)
	require.NoError(t, err)
	flashes, err := flash.New(e2eSecret, flash.DefaultSalt, flash.DefaultMaxAge, flash.WithLogger(log))
	require.NoError(t, err)

	router := handlers.NewHandler(services, sessions, flashes, log).InitRoutes()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// newBrowser is a client with its own cookie jar that stops at redirects.
func newBrowser(srv *httptest.Server) *resty.Client {
	return resty.New().
		SetBaseURL(srv.URL).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
}

func submit(t *testing.T, c *resty.Client, path string, form map[string]string) *resty.Response {
	t.Helper()
	resp, err := c.R().SetFormData(form).Post(path)
	require.NoError(t, err, "error making HTTP request")
	return resp
}

func visit(t *testing.T, c *resty.Client, path string) *resty.Response {
	t.Helper()
	resp, err := c.R().Get(path)
	require.NoError(t, err, "error making HTTP request")
	return resp
}

func assertRedirect(t *testing.T, resp *resty.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode(), resp.String())
	assert.Equal(t, location, resp.Header().Get("Location"))
}

func TestBlogFlow(t *testing.T) {
	srv := newBlogServer(t)
	alice := newBrowser(srv)

	assertRedirect(t, visit(t, alice, "/"), "/login")

	creds := map[string]string{"username": "alice", "password": "s3cret"}
	assertRedirect(t, submit(t, alice, "/register", creds), "/login")
	assert.Contains(t, visit(t, alice, "/login").String(), "Registration successful. Please log in.")

	assertRedirect(t, submit(t, alice, "/register", creds), "/register")
	assert.Contains(t, visit(t, alice, "/register").String(), "Username already taken")

	assertRedirect(t, submit(t, alice, "/login", map[string]string{"username": "alice", "password": "nope"}), "/login")
	assertRedirect(t, visit(t, alice, "/"), "/login")

	assertRedirect(t, submit(t, alice, "/login", creds), "/")
	home := visit(t, alice, "/")
	require.Equal(t, http.StatusOK, home.StatusCode())
	assert.Contains(t, home.String(), "Logged in successfully!")

	post := map[string]string{"title": "Hello World!", "content": "First post."}
	assertRedirect(t, submit(t, alice, "/post/create", post), "/post/hello-world")
	assertRedirect(t, submit(t, alice, "/post/create", post), "/post/hello-world-2")

	page := visit(t, alice, "/post/hello-world")
	require.Equal(t, http.StatusOK, page.StatusCode())
	assert.Contains(t, page.String(), "Hello World!")
	assert.Contains(t, page.String(), "/post/hello-world/edit")

	api := visit(t, alice, "/api/v1/posts")
	require.Equal(t, http.StatusOK, api.StatusCode())
	assert.Contains(t, api.String(), `"count":2`)

	bob := newBrowser(srv)
	bobCreds := map[string]string{"username": "bob", "password": "hunter2"}
	assertRedirect(t, submit(t, bob, "/register", bobCreds), "/login")
	assertRedirect(t, submit(t, bob, "/login", bobCreds), "/")

	bobActivity := visit(t, bob, "/api/v1/activity")
	require.Equal(t, http.StatusOK, bobActivity.StatusCode())
	assert.NotContains(t, bobActivity.String(), "alice")
	assert.Contains(t, bobActivity.String(), `"count":2`)

	foreign := visit(t, bob, "/post/hello-world")
	require.Equal(t, http.StatusOK, foreign.StatusCode())
	assert.NotContains(t, foreign.String(), "/post/hello-world/edit")
	assert.Equal(t, http.StatusNotFound, submit(t, bob, "/post/hello-world/delete", nil).StatusCode())
	assert.Equal(t, http.StatusNotFound, visit(t, bob, "/post/hello-world/edit").StatusCode())

	edit := map[string]string{"title": "Renamed", "content": "Edited."}
	assertRedirect(t, submit(t, alice, "/post/hello-world/edit", edit), "/post/renamed")
	assert.Equal(t, http.StatusNotFound, visit(t, alice, "/post/hello-world").StatusCode())

	assertRedirect(t, submit(t, alice, "/post/renamed/delete", nil), "/")
	assert.Equal(t, http.StatusNotFound, visit(t, alice, "/post/renamed").StatusCode())

	activity := visit(t, alice, "/api/v1/activity?type=post_created")
	require.Equal(t, http.StatusOK, activity.StatusCode())
	assert.Contains(t, activity.String(), `"count":2`)

	assertRedirect(t, submit(t, alice, "/logout", nil), "/login")
	assertRedirect(t, visit(t, alice, "/"), "/login")
	assert.Equal(t, http.StatusUnauthorized, visit(t, alice, "/api/v1/me").StatusCode())
}

func TestBlogFlow_SignedSession(t *testing.T) {
	srv := newBlogServer(t, session.WithSigningSecret(e2eSecret))
	c := newBrowser(srv)

	creds := map[string]string{"username": "carol", "password": "pw"}
	assertRedirect(t, submit(t, c, "/register", creds), "/login")
	resp := submit(t, c, "/login", creds)
	assertRedirect(t, resp, "/")

	var issued *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == session.DefaultCookieName {
			issued = ck
		}
	}
	require.NotNil(t, issued)
	assert.NotEqual(t, "1", issued.Value)

	me := visit(t, c, "/api/v1/me")
	require.Equal(t, http.StatusOK, me.StatusCode())
	assert.Contains(t, me.String(), `"username":"carol"`)

	forged := newBrowser(srv)
	resp, err := forged.R().SetCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "1"}).Get("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}
