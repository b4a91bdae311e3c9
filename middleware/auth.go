package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/insidehealthgt/hms/userctx"
)

// Session keys shared with the auth controller
const (
	SessionUserID       = "user_id"
	SessionUserNickname = "user_nickname"
	SessionUserRoles    = "user_roles"
	SessionRedirect     = "redirect_after_login"
)

// RequireAuth ensures the user is authenticated and puts the actor in the
// request context. API requests get a 401; pages redirect to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		userID, ok := sess.Get(SessionUserID).(int64)

		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			// Store the intended destination for redirect after login
			sess.Set(SessionRedirect, r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		name, _ := sess.Get(SessionUserNickname).(string)
		roles, _ := sess.Get(SessionUserRoles).([]string)
		ctx := userctx.WithActor(r.Context(), userctx.Actor{ID: userID, Name: name, Roles: roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose actor lacks role with a 403.
// It must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := userctx.GetActor(r.Context())
			if !ok || !actor.HasRole(role) {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
