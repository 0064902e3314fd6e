package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("64f000000000000000000001")
	require.NoError(t, err)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", userID)
}

func TestTokenExpiryIsOneHour(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &TokenService{secret: []byte("test-secret"), now: func() time.Time { return issued }}

	token, err := svc.Issue("abc")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, int64(3600), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestVerifyExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	svc := &TokenService{secret: []byte("test-secret"), now: func() time.Time { return past }}

	token, err := svc.Issue("abc")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("abc")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := NewTokenService("test-secret")

	// Token signed with the right secret but no subject claim.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
