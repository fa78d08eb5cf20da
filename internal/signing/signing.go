// Package signing derives per-purpose HMAC keys from the application secret.
package signing

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var ErrEmptySecret = errors.New("signing secret is empty")

// DeriveKey expands secret into a 32-byte key bound to salt. Different salts
// give unrelated keys for the same secret.
func DeriveKey(secret, salt string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(secret), []byte(salt), []byte("blog_app "+salt))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", salt, err)
	}
	return key, nil
}
