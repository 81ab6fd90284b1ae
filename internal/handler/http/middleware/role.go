package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/factory-payroll/internal/handler/http/response"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.Role.CanRunPayroll() {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
