package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-portfolio-api/internal/repository"
	"go-portfolio-api/pkg/jwt"
)

func newAuthFixture(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepo(newTestDB(t)), tokens, nopLogger), tokens
}

func TestAuthService_ProvisionAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthFixture(t)

	user, created, err := svc.ProvisionUser(ctx, ProvisionRequest{Name: "Alice", Email: " Alice@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice@example.com", user.Email)

	resp, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Empty(t, resp.User.LikedProducts)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ProvisionResetsPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	first, _, err := svc.ProvisionUser(ctx, ProvisionRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	again, created, err := svc.ProvisionUser(ctx, ProvisionRequest{Name: "Alice", Email: "alice@example.com", Password: "changed456"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, err = svc.Login(ctx, "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice@example.com", "changed456")
	assert.NoError(t, err)
}

func TestAuthService_ProvisionValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.ProvisionUser(context.Background(), ProvisionRequest{Name: "A", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.ProvisionUser(context.Background(), ProvisionRequest{Name: "A", Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	user, _, err := svc.ProvisionUser(ctx, ProvisionRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
