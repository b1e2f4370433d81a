package auth

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()

	key := make([]byte, keyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	svc, err := NewTokenService(key)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_BadKeyLength(t *testing.T) {
	_, err := NewTokenService([]byte("too short"))
	require.Error(t, err)
}

func TestVerifyAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Issue("user-abc123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", claims.UserID)
	assert.Equal(t, "user-abc123", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Equal(t, tokenAudience, claims.Audience)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Issue("user-abc123", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other := newTestService(t)

	token, err := svc.Issue("user-abc123", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.VerifyAccessToken("v4.local.not-a-real-token")
	require.Error(t, err)
}

func TestLoadOrGenerateKey_Persistence(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, key1, keyLength)

	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
