package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "iodine_session"

type sessionKey struct{}

// sessionMiddleware makes sure every request carries a tracker session,
// issuing a new cookie when the caller has none.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			id = strings.TrimSpace(cookie.Value)
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// sessionIDFrom prefers an explicit session_id argument over the cookie
// session, for tool clients that do not keep cookies.
func sessionIDFrom(r *http.Request, args map[string]interface{}) string {
	if raw, ok := args["session_id"].(string); ok && strings.TrimSpace(raw) != "" {
		return strings.TrimSpace(raw)
	}
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}
