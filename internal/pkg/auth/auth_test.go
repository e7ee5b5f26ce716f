package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "marketplace-test"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	jwtManager := auth.NewJWTManager(testConfig())

	token, err := jwtManager.GenerateAccessToken(auth.Identity{UserID: 7, Email: "a@b.c", IsSeller: true})
	require.NoError(t, err)

	claims, err := jwtManager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.IsSeller)
	assert.False(t, claims.IsAdmin)

	_, err = jwtManager.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"

	token, err := auth.NewJWTManager(other).GenerateRefreshToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = auth.NewJWTManager(testConfig()).ValidateRefreshToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", auth.ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, auth.ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, auth.ExtractTokenFromHeader(""))
}

func TestPasswordHashing(t *testing.T) {
	passwords := auth.NewPasswordManager(testConfig())

	hash, err := passwords.HashPassword("Secret42x")
	require.NoError(t, err)
	assert.NoError(t, passwords.VerifyPassword("Secret42x", hash))
	assert.Error(t, passwords.VerifyPassword("secret42x", hash))

	_, err = passwords.HashPassword("short")
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"password"}, verr.FieldNames())

	_, err = passwords.HashPassword("alllowercase1")
	assert.ErrorAs(t, err, &verr)
}
