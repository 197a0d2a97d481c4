// backend/internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const studentKey contextKey = "student"

func WithStudent(ctx context.Context, student string) context.Context {
	return context.WithValue(ctx, studentKey, student)
}

func StudentFromContext(ctx context.Context) (string, bool) {
	student, ok := ctx.Value(studentKey).(string)
	return student, ok && student != ""
}

// BearerToken pulls the token from the Authorization header, falling back to
// the token query parameter for websocket upgrades.
func BearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) == 2 && bearerToken[0] == "Bearer" {
			return bearerToken[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func JWTMiddleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := BearerToken(r)
			if token == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			student, err := service.Parse(token)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStudent(r.Context(), student)))
		})
	}
}
