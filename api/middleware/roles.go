package middleware

import (
	"net/http"

	"github.com/shopmall/backend/api/responses"
	"github.com/shopmall/backend/pkg/enums"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
	"github.com/shopmall/backend/pkg/logger"
)

// RequireRole rejects requests whose actor role is not in the allowed set.
// The message is returned verbatim in the 403 body.
func RequireRole(logg *logger.Logger, message string, roles ...enums.Role) func(http.Handler) http.Handler {
	allowed := map[enums.Role]struct{}{}
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BlockRole rejects requests from a single role while letting everyone else
// through. Used where one role is explicitly barred from a surface.
func BlockRole(logg *logger.Logger, message string, blocked enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) == blocked {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
