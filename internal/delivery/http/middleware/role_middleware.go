package middleware

import (
	"net/http"
	"strings"

	"awn-booking/internal/domain/entity"
	"awn-booking/pkg/response"

	"github.com/gorilla/mux"
)

// RequireRole admits callers whose token carries one of roleIDs. It must run
// after Authenticate, a request without an identity is answered with 401.
func RequireRole(roleIDs ...int) mux.MiddlewareFunc {
	allowed := make(map[int]struct{}, len(roleIDs))
	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = struct{}{}
		names = append(names, entity.RoleName(id))
	}
	denied := "Only " + strings.Join(names, " or ") + " accounts can access this resource"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}
			if _, ok := allowed[roleID]; !ok {
				response.Forbidden(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	RequireAdmin     = RequireRole(entity.RoleIDAdmin)
	RequireTherapist = RequireRole(entity.RoleIDTherapist)
	RequirePatient   = RequireRole(entity.RoleIDPatient)
)
