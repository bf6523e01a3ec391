package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/auth"
)

// ActorMiddleware resolves the acting identity for every mutating request.
// Callers present either a bearer token issued by the external auth layer or
// explicit X-Actor-* headers when running behind a trusted gateway.
type ActorMiddleware struct {
	resolver *auth.TokenResolver
}

// NewActorMiddleware creates a new ActorMiddleware. A nil resolver disables
// bearer tokens; header identification still works.
func NewActorMiddleware(resolver *auth.TokenResolver) *ActorMiddleware {
	return &ActorMiddleware{resolver: resolver}
}

// Wrap wraps an http.Handler with actor resolution. Requests without any
// identity pass through; handlers that stamp movements reject them.
func (m *ActorMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			if m.resolver == nil {
				http.Error(w, "token authentication not configured", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			actor, err := m.resolver.Resolve(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithActor(r.Context(), actor)))
			return
		}

		if id := r.Header.Get("X-Actor-ID"); id != "" {
			actor := domain.Actor{
				ID:   id,
				Name: r.Header.Get("X-Actor-Name"),
				Role: domain.ActorRole(r.Header.Get("X-Actor-Role")),
			}
			if actor.Role == "" {
				actor.Role = domain.RoleEmployee
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithActor(r.Context(), actor)))
			return
		}

		next.ServeHTTP(w, r)
	})
}
