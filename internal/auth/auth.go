package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

// Claims identifies the signed-in administrator.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks the single admin account and issues HS256 tokens.
type Authenticator struct {
	secret   []byte
	email    string
	password string
	ttl      time.Duration
	now      func() time.Time
}

func New(secret, email, password string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authenticator{
		secret:   []byte(secret),
		email:    email,
		password: password,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login returns a signed token when email and password match the admin.
func (authenticator *Authenticator) Login(email, password string) (string, time.Time, error) {
	emailOK := secureCompare(authenticator.email, email)
	passwordOK := secureCompare(authenticator.password, password)
	if !emailOK || !passwordOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return authenticator.Issue(email)
}

func (authenticator *Authenticator) Issue(email string) (string, time.Time, error) {
	now := authenticator.now()
	expires := now.Add(authenticator.ttl)
	claims := Claims{
		Email: email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(authenticator.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (authenticator *Authenticator) Verify(token string) (Claims, error) {
	var claims Claims
	key := func(*jwt.Token) (any, error) { return authenticator.secret, nil }
	parsed, err := jwt.ParseWithClaims(token, &claims, key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(authenticator.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func secureCompare(expected, actual string) bool {
	if len(expected) == 0 || len(actual) == 0 {
		return false
	}
	if len(expected) != len(actual) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
