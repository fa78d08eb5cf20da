package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog_app/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPI_Unauthenticated401(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/posts", "/api/v1/posts/x", "/api/v1/activity", "/ws/feed"} {
		w := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"error":"not authenticated"}`, w.Body.String(), path)
	}
}

func TestAPI_SessionLookupFailure500(t *testing.T) {
	env := newTestEnv(t)
	env.auth.lookupErr = errors.New("db down")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), sessionCookie(alice))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAPI_Me(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), sessionCookie(alice))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"username":"alice"}`, w.Body.String())
}

func TestAPI_Posts(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(env)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil), sessionCookie(bob))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Count int       `json:"count"`
		Posts []PostOut `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "alices-post", out.Posts[0].Slug)
	assert.Equal(t, "alice", out.Posts[0].OwnerUsername)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/bobs-post", nil), sessionCookie(bob))
	require.Equal(t, http.StatusOK, w.Code)
	var one PostOut
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, int64(2), one.ID)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil), sessionCookie(bob))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_PostsStorageError(t *testing.T) {
	env := newTestEnv(t)
	env.posts.listErr = errors.New("db down")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil), sessionCookie(alice))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to load posts"}`, w.Body.String())
}

func TestActivityHandler_ListAndValidation(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC().Truncate(time.Second)
	env.events.resp = []models.ActivityEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventLogin, UserID: 7},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventPostCreated, UserID: 7},
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/activity?from=notatime", nil), sessionCookie(alice))
	require.Equal(t, http.StatusBadRequest, w.Code)

	q := "/api/v1/activity?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=post_created"
	w = env.do(httptest.NewRequest(http.MethodGet, q, nil), sessionCookie(alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Count  int                    `json:"count"`
		Events []models.ActivityEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "post_created", env.events.lastType)
	assert.Equal(t, alice.ID, env.events.lastUserID)
	assert.True(t, env.events.lastFrom.Equal(now))
}

func TestActivityHandler_ScopedToCurrentUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil), sessionCookie(bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bob.ID, env.events.lastUserID)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil), sessionCookie(alice))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alice.ID, env.events.lastUserID)
}

func TestActivityHandler_DateOnlyToCoversDay(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/activity?to=2025-08-31", nil), sessionCookie(alice))
	require.Equal(t, http.StatusOK, w.Code)

	want := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	assert.True(t, env.events.lastTo.Equal(want), "got %v", env.events.lastTo)
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-08-27T15:04:05Z", want: time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{in: "2025-08-27T18:04:05+03:00", want: time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{in: "2025-08-27 15:04:05", want: time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{in: "2025-08-27", want: time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{in: "yesterday", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s: got %v", tc.in, got)
	}
}

func TestFormErrorMessage(t *testing.T) {
	err := postForm{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Content cannot be blank; Title cannot be blank", formErrorMessage(err))

	assert.Equal(t, msgInvalidForm, formErrorMessage(errors.New("other")))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("  short "))

	long := make([]rune, excerptLen+10)
	for i := range long {
		long[i] = 'é'
	}
	got := excerpt(string(long))
	assert.Equal(t, excerptLen+1, len([]rune(got)))
}

func TestCurrentUser_MissingIsNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, currentUser(c))
}
