package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberblog/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() model.User {
	return model.User{
		ID:    7,
		Email: "admin@example.com",
		Role:  model.RoleAdmin,
	}
}

func TestTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("too-short", 7*24*time.Hour)
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, 7*24*time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := svc.Verify(token)
	require.True(t, ok)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestTokenService_ExpiredTokenIsAbsent(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Millisecond)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	// exp is second-granular, so the credential must be backdated past a
	// full second to be reliably expired.
	time.Sleep(1100 * time.Millisecond)

	claims, ok := svc.Verify(token)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestTokenService_TamperedTokenIsAbsent(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	_, ok := svc.Verify(tampered)
	assert.False(t, ok)
}

func TestTokenService_WrongKeyIsAbsent(t *testing.T) {
	issuer, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, ok := verifier.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_GarbageIsAbsent(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, ok := svc.Verify(raw)
		assert.False(t, ok, "input %q should not verify", raw)
	}
}
