package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// TokenSource reports the token of the signed-in session, or "" when
// anonymous.
type TokenSource func() string

type Middleware struct {
	issuer  Issuer
	current TokenSource
	logger  *zap.Logger
}

func NewMiddleware(issuer Issuer, current TokenSource, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		issuer:  issuer,
		current: current,
		logger:  logger,
	}
}

// RequireSession rejects requests whose bearer token is not the token of the
// current session.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		if err := m.issuer.Verify(tokenString); err != nil {
			m.logger.Warn("Invalid token attempt", zap.Error(err))
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if current := m.current(); current == "" || current != tokenString {
			http.Error(w, "Not signed in", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
