package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type principalKey struct{}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireRole rejects requests whose bearer token does not carry role.
func RequireRole(authorizer domain.Authorizer, role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authorizer.Authorize(r.Context(), bearerToken(r), role)
			if err != nil {
				status := statusFor(err)
				if status != http.StatusForbidden {
					status = http.StatusUnauthorized
				}
				writeError(w, status, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok
}
