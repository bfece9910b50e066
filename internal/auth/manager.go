// Package auth verifies the bearer tokens issued by the external
// account service and exposes the caller's identity to handlers.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rideon/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"user_id"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Identity is what the middleware places in the request context.
type Identity struct {
	UserID types.ID
	Admin  bool
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Sign mints an HS256 token. Used by the account service and by tests.
func (m *Manager) Sign(userID types.ID, admin bool) (string, error) {
	claims := &Claims{
		UserID: string(userID),
		Admin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token and returns the identity it carries.
func (m *Manager) Parse(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: types.ID(claims.UserID), Admin: claims.Admin}, nil
}
