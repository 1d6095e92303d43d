package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/freshtrack-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "FreshTrack Backend"},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken("admin@freshtrack.local", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "admin@freshtrack.local", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "FreshTrack Backend", claims.Issuer)
}

func TestValidateAccessTokenRejectsTampering(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken("admin@freshtrack.local", true)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token + "x")
	assert.Error(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
}

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := manager.HashPassword("correct horse battery staple")
		require.NoError(t, err)

		assert.NoError(t, manager.VerifyPassword("correct horse battery staple", hash))
		assert.Error(t, manager.VerifyPassword("wrong password", hash))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := manager.HashPassword("short")
		assert.Error(t, err)
	})
}
