package middleware

import (
	"net/http"
	"strings"

	"census-app-go/internal/domain/access"
)

const FieldWorkerHome = "/recoleccion"

// FieldWorkerGuard sends users without elevated capabilities back to their assignment board
// with a 303. It only routes; every mutating handler still applies the access policy.
func FieldWorkerGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if ok && access.IsFieldWorkerOnly(actor) && !fieldWorkerAllowed(r.URL.Path) {
			http.Redirect(w, r, FieldWorkerHome, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func fieldWorkerAllowed(path string) bool {
	switch {
	case strings.HasPrefix(path, FieldWorkerHome):
	case strings.HasPrefix(path, "/evidencias/"):
	case path == "/auth/logout", path == "/auth/me":
	default:
		return false
	}
	return true
}

// Require rejects requests whose actor fails check with a 403. It protects read endpoints
// whose services take no actor.
func Require(check func(access.Actor) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if err := check(actor); err != nil {
				writeError(w, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
