// Package flash carries one-shot user notices in a short-lived signed cookie.
package flash

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"blog_app/internal/logger"
	"blog_app/internal/signing"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "flash"

	DefaultSalt   = "flash"
	DefaultMaxAge = 10 * time.Second
)

var ErrNoMessage = errors.New("no flash message")

type claims struct {
	jwt.RegisteredClaims
	Msg string `json:"msg"`
}

// Messenger signs and verifies flash cookies.
type Messenger struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
	log    *logger.Logger
}

type Option func(*Messenger)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Messenger) { m.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(m *Messenger) { m.log = l }
}

// New builds a Messenger whose key is derived from secret and salt.
func New(secret, salt string, maxAge time.Duration, opts ...Option) (*Messenger, error) {
	if salt == "" {
		salt = DefaultSalt
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	key, err := signing.DeriveKey(secret, salt)
	if err != nil {
		return nil, err
	}
	m := &Messenger{key: key, maxAge: maxAge, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Set attaches message as a signed cookie that lives for the configured max age.
func (m *Messenger) Set(w http.ResponseWriter, message string) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
		Msg: message,
	})
	signed, err := token.SignedString(m.key)
	if err != nil {
		return fmt.Errorf("sign flash: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get returns the pending message. Missing, tampered, foreign or expired
// cookies all read as no message.
func (m *Messenger) Get(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	msg, err := m.verify(c.Value)
	if err != nil {
		if m.log != nil {
			m.log.Debugw("flash_rejected", "error", err)
		}
		return "", false
	}
	return msg, true
}

func (m *Messenger) verify(value string) (string, error) {
	if value == "" {
		return "", ErrNoMessage
	}
	var cl claims
	_, err := jwt.ParseWithClaims(value, &cl, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("verify flash: %w", err)
	}
	return cl.Msg, nil
}
