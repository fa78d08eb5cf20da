package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"blog_app/internal/flash"
	"blog_app/internal/models"
	"blog_app/internal/service"
	"blog_app/internal/session"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	users map[int64]*models.User

	registerID  int64
	registerErr error
	authUser    *models.User
	authErr     error
	lookupErr   error

	lastRegisterUsername string
	lastRegisterPassword string
	lastAuthUsername     string
	lastAuthPassword     string
}

func (m *mockAuth) Register(_ context.Context, username, password string) (int64, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerID, m.registerErr
}

func (m *mockAuth) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	m.lastAuthUsername = username
	m.lastAuthPassword = password
	return m.authUser, m.authErr
}

func (m *mockAuth) UserByID(_ context.Context, id int64) (*models.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.users[id], nil
}

type mockPosts struct {
	posts   []models.Post
	listErr error
	getErr  error

	createResult *models.Post
	createErr    error
	updateResult *models.Post
	updateErr    error
	deleteErr    error

	createCalls int
	updateCalls int
	deleteCalls int

	lastTitle   string
	lastContent string
	lastOwnerID int64
	lastDeleted *models.Post
}

func (m *mockPosts) List(context.Context) ([]models.Post, error) {
	return m.posts, m.listErr
}

func (m *mockPosts) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.posts {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, service.ErrPostNotFound
}

func (m *mockPosts) Create(_ context.Context, title, content string, ownerID int64) (*models.Post, error) {
	m.createCalls++
	m.lastTitle, m.lastContent, m.lastOwnerID = title, content, ownerID
	return m.createResult, m.createErr
}

func (m *mockPosts) Update(_ context.Context, _ *models.Post, title, content string) (*models.Post, error) {
	m.updateCalls++
	m.lastTitle, m.lastContent = title, content
	return m.updateResult, m.updateErr
}

func (m *mockPosts) Delete(_ context.Context, p *models.Post) error {
	m.deleteCalls++
	m.lastDeleted = p
	return m.deleteErr
}

type mockActivity struct {
	resp       []models.ActivityEvent
	err        error
	lastFrom   time.Time
	lastTo     time.Time
	lastType   string
	lastUserID int64

	recorded []string
}

func (m *mockActivity) Record(_ context.Context, typ string, _ int64, _ string, _ any) {
	m.recorded = append(m.recorded, typ)
}

func (m *mockActivity) List(_ context.Context, f service.ActivityFilter) ([]models.ActivityEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastUserID = f.UserID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

const testSecret = "handler-test-secret-0123456789"

var (
	alice = &models.User{ID: 7, Username: "alice"}
	bob   = &models.User{ID: 8, Username: "bob"}
)

type testEnv struct {
	router  *gin.Engine
	flashes *flash.Messenger
	auth    *mockAuth
	posts   *mockPosts
	events  *mockActivity
	handler *Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:   &mockAuth{users: map[int64]*models.User{alice.ID: alice, bob.ID: bob}},
		posts:  &mockPosts{},
		events: &mockActivity{},
	}
	s := &service.Service{Authorization: env.auth, Posts: env.posts, ActivityLog: env.events}

	sessions, err := session.NewManager(env.auth)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	env.flashes, err = flash.New(testSecret, flash.DefaultSalt, flash.DefaultMaxAge)
	if err != nil {
		t.Fatalf("flash messenger: %v", err)
	}

	env.handler = NewHandler(s, sessions, env.flashes, nil)
	env.router = env.handler.InitRoutes()
	return env
}

// sessionCookie is the plain identity cookie for u.
func sessionCookie(u *models.User) *http.Cookie {
	return &http.Cookie{Name: session.DefaultCookieName, Value: strconv.FormatInt(u.ID, 10)}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// flashOf decodes the flash cookie set on w, if any.
func (e *testEnv) flashOf(w *httptest.ResponseRecorder) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == flash.CookieName {
			req.AddCookie(c)
		}
	}
	msg, _ := e.flashes.Get(req)
	return msg
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
