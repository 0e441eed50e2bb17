// Package auth covers password hashing and the request identity carried
// through context. Session tokens are opaque UUIDs stored server-side.
package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "flashdeck_session"

// HashPassword hashes a plaintext password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// NewID returns an identifier for user rows, which never appear in URLs.
func NewID() string {
	return uuid.NewString()
}

type userIDKey struct{}

// WithUserID stamps the authenticated user onto the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID pulls the authenticated user from the context. The empty string
// means the request is anonymous.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}
