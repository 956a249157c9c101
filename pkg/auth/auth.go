package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the identity carried by a verified bearer token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

type Verifier interface {
	Verify(token string) (*Claims, error)
}

type Issuer interface {
	Issue(subject, role string) (string, error)
}
