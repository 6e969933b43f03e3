package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/auth"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
)

type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access token expiration: %w", err)
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ActorFromContext reads the caller verified by jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return user.Actor{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, user.ErrActorRequired
	}
	role, _ := claims["role"].(string)

	return user.Actor{UserID: userID, Role: user.Role(role)}, nil
}
