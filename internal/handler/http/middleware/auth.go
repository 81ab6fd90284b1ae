package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/factory-payroll/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// Actor is the caller identified by the access token.
type Actor struct {
	UserID string
	Role   auth.Role
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// AuthRequired rejects requests without a valid access token and stores the
// caller in the request context. It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				if errors.Is(err, jwtauth.ErrExpired) {
					response.HandleError(w, auth.ErrTokenExpired)
					return
				}
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, _ := claims["type"].(string)
			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if tokenType != "access" || userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, Actor{UserID: userID, Role: auth.Role(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
