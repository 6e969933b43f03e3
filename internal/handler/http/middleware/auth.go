package middleware

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/auth"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token. It must run
// after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if errors.Is(err, jwtauth.ErrExpired) {
				response.HandleError(w, auth.ErrTokenExpired)
				return
			}
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
