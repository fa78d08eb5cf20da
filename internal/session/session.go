// Package session resolves the logged-in user from the identity cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog_app/internal/models"
	"blog_app/internal/signing"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultCookieName = "user_id"

	signingSalt = "session"
)

var ErrUnauthenticated = errors.New("not authenticated")

// UserFinder looks up users by id. It returns (nil, nil) for unknown ids.
type UserFinder interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Claims is the payload of a signed identity cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// Manager issues, reads and revokes the identity cookie.
//
// By default the cookie holds the plain decimal user id, which any client can
// forge. WithSigningSecret switches to an HS256 token instead.
type Manager struct {
	users UserFinder
	name  string
	key   []byte
}

type Option func(*Manager) error

func WithCookieName(name string) Option {
	return func(m *Manager) error {
		if name != "" {
			m.name = name
		}
		return nil
	}
}

// WithSigningSecret enables signed identity cookies.
func WithSigningSecret(secret string) Option {
	return func(m *Manager) error {
		key, err := signing.DeriveKey(secret, signingSalt)
		if err != nil {
			return err
		}
		m.key = key
		return nil
	}
}

func NewManager(users UserFinder, opts ...Option) (*Manager, error) {
	m := &Manager{users: users, name: DefaultCookieName}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("session option: %w", err)
		}
	}
	return m, nil
}

func (m *Manager) CookieName() string { return m.name }

// Signed reports whether identity cookies are signed.
func (m *Manager) Signed() bool { return m.key != nil }

// CurrentUser returns the user named by the identity cookie, or nil when the
// cookie is missing, malformed or names no user. Only lookup failures are errors.
func (m *Manager) CurrentUser(r *http.Request) (*models.User, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		return nil, nil
	}
	id, ok := m.decode(c.Value)
	if !ok {
		return nil, nil
	}
	u, err := m.users.UserByID(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("load session user %d: %w", id, err)
	}
	return u, nil
}

// RequireUser is CurrentUser with ErrUnauthenticated for anonymous requests.
func (m *Manager) RequireUser(r *http.Request) (*models.User, error) {
	u, err := m.CurrentUser(r)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// Issue attaches the identity cookie for user.
func (m *Manager) Issue(w http.ResponseWriter, user *models.User) error {
	value, err := m.encode(user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Revoke expires the identity cookie on the client.
func (m *Manager) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) encode(id int64) (string, error) {
	if m.key == nil {
		return strconv.FormatInt(id, 10), nil
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
		UserID:           id,
	})
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) decode(value string) (int64, bool) {
	if m.key == nil {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}

	var cl Claims
	_, err := jwt.ParseWithClaims(value, &cl, func(*jwt.Token) (any, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || cl.UserID <= 0 {
		return 0, false
	}
	return cl.UserID, true
}
