package httpapi

import (
	"net/http"

	"github.com/sauerbraten/frontline/internal/auth"
	"github.com/sauerbraten/frontline/internal/definitions/privilege"
)

// requirePrivilege checks HTTP basic auth credentials. Admins may use every route, bridge users only
// bridge routes.
func requirePrivilege(users auth.Provider, required privilege.ID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="frontline"`)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			priv, err := users.Authenticate(name, password)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="frontline"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			if priv < required {
				writeError(w, http.StatusForbidden, "requires "+required.String()+" privilege")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
