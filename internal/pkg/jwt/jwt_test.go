package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/auth"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
)

func TestGenerateAccessToken_RoundTripsActor(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", user.RoleAccountant)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Positive(t, expiresAt)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, user.RoleAccountant, actor.Role)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", user.RoleAdmin)
	assert.Error(t, err)
}

func TestActorFromContext_NoToken(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
