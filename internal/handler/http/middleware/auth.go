package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a valid access token. The canonical
// actor identity is the user_id claim; handlers must never take it from the
// request body.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Invalid access token")
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.Unauthorized(w, "User ID not found in token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// UserID extracts the authenticated user id from the request context. Returns
// an empty string when no valid token is present.
func UserID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}
