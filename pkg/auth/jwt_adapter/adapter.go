package jwt_adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"orderflow/pkg/auth"
)

const DefaultTTL = 24 * time.Hour

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Adapter signs and verifies HS256 tokens with a shared secret.
type Adapter struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Adapter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Adapter{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (a *Adapter) Issue(subject, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Adapter) Verify(tokenString string) (*auth.Claims, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, auth.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	if !token.Valid || parsed.Subject == "" {
		return nil, auth.ErrInvalidToken
	}

	result := &auth.Claims{
		Subject: parsed.Subject,
		Role:    parsed.Role,
	}
	if parsed.ExpiresAt != nil {
		result.ExpiresAt = parsed.ExpiresAt.Time
	}
	return result, nil
}
