package auth

import (
	"errors"
	"time"

	"pharmacy-backoffice/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is the logged-in identity. Nothing about it was verified: the
// username is whatever was typed and the role whatever was picked.
type Session struct {
	ID        string      `json:"-"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Claims defines what is inside the token
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and checks session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for a fresh session.
func (t *Tokens) Issue(username string, role models.Role) (string, Session, error) {
	now := t.now()
	s := Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		ExpiresAt: now.Add(t.ttl),
	}

	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", Session{}, err
	}
	// the token only carries whole seconds
	s.ExpiresAt = claims.ExpiresAt.Time
	return signed, s, nil
}

// Validate checks if a token is forged or expired and returns its session.
func (t *Tokens) Validate(tokenString string) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	s := &Session{
		ID:       claims.ID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
