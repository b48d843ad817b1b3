package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/wayfarer-travel/backend/internal/auth"
	"github.com/wayfarer-travel/backend/internal/domain"
)

// TokenParser verifies a bearer token. *auth.Signer satisfies it.
type TokenParser interface {
	Parse(token string) (domain.User, error)
}

// Authenticate attaches the user named by a valid "Authorization: Bearer"
// token to the request context. Requests without a token, or with one that
// fails verification, continue anonymously; handlers decide whether an
// operation needs a user.
func Authenticate(p TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			u, err := p.Parse(token)
			if err != nil {
				log.DebugContext(r.Context(), "ignoring invalid bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
