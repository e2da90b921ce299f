package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	notAfter := time.Now().Add(24 * time.Hour)
	token, err := GenerateAccessToken("admin", "Portal Admin", "ADMIN", "2026-12-31", testSecret, 60, notAfter)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Account)
	assert.Equal(t, "Portal Admin", claims.DisplayName)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "2026-12-31", claims.WindowEnd)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("admin", "Portal Admin", "ADMIN", "2026-12-31", testSecret, 60, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateAccessToken_ClampedToWindowEnd(t *testing.T) {
	// The credential window ends before the configured TTL would
	notAfter := time.Now().Add(1 * time.Minute)
	token, err := GenerateAccessToken("viewer", "Portal User", "USER", "2026-03-31", testSecret, 60, notAfter)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.WithinDuration(t, notAfter, claims.ExpiresAt.Time, 2*time.Second)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken("admin", "Portal Admin", "ADMIN", "2026-12-31", testSecret, 60, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
