package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
)

func newService(t *testing.T) (*user.Service, *auth.JWTManager) {
	t.Helper()
	cfg := testutil.Config(config.OversellStrict)
	jwtManager := auth.NewJWTManager(cfg)
	return user.NewService(testutil.OpenDB(t), cfg, jwtManager, logger.Discard()), jwtManager
}

func registerRequest() *user.RegisterRequest {
	return &user.RegisterRequest{
		Email:           "New.Buyer@Example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		FirstName:       "New",
		LastName:        "Buyer",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtManager := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "new.buyer@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.AccessToken)

	claims, err := jwtManager.ValidateAccessToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, &user.LoginRequest{Email: "NEW.BUYER@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(ctx, &user.LoginRequest{Email: "new.buyer@example.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &user.LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	refreshed, err := svc.RefreshToken(ctx, loggedIn.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, loggedIn.AccessToken)
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRegisterRejects(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("password mismatch", func(t *testing.T) {
		req := registerRequest()
		req.ConfirmPassword = "Other1234"
		_, err := svc.Register(ctx, req)
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"confirm_password"}, verr.FieldNames())
	})

	t.Run("weak password", func(t *testing.T) {
		req := registerRequest()
		req.Password, req.ConfirmPassword = "password", "password"
		_, err := svc.Register(ctx, req)
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"password"}, verr.FieldNames())
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		_, err = svc.Register(ctx, registerRequest())
		var conflict *apperror.ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestGetBuyer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	buyer, err := svc.GetBuyer(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.buyer@example.com", buyer.Email)
	assert.Equal(t, "New", buyer.FirstName)

	_, err = svc.GetBuyer(ctx, 9999)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
}
