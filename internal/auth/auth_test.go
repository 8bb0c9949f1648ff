package auth

import (
	"testing"

	"billing-backend/internal/config"
	"billing-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "billing-backend-test"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 42, Email: "clerk@example.com", Role: models.RoleUser, IsActive: true}

	token, err := mgr.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.IsActive)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleAdmin, IsActive: true}

	token, err := mgr.GenerateToken(user)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "different-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
