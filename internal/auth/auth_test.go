package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesVerifiableToken(t *testing.T) {
	authenticator := New("secret", "admin@example.com", "hunter2", 0)

	token, expires, err := authenticator.Login("admin@example.com", "hunter2")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(DefaultTTL), expires, time.Minute)

	claims, err := authenticator.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, "admin@example.com", claims.Subject)
	require.Equal(t, "admin", claims.Role)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	authenticator := New("secret", "admin@example.com", "hunter2", 0)

	_, _, err := authenticator.Login("admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = authenticator.Login("", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	authenticator := New("secret", "admin@example.com", "hunter2", time.Hour)
	token, _, err := authenticator.Issue("admin@example.com")
	require.NoError(t, err)

	authenticator.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = authenticator.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := New("other-secret", "admin@example.com", "hunter2", time.Hour)
	foreign, _, err := other.Issue("admin@example.com")
	require.NoError(t, err)
	_, err = New("secret", "admin@example.com", "hunter2", time.Hour).Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = authenticator.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}
