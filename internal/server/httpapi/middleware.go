package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/muliswilliam/secureshare/internal/server/auth"
	"github.com/muliswilliam/secureshare/internal/server/models"
)

type contextKey string

const userIDKey contextKey = "userID"

// userID returns the authenticated sender identity, or "" for anonymous
// requests.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// withUser resolves an optional Bearer token into a sender identity.
// Requests without an Authorization header proceed anonymously; a present
// but invalid token is rejected rather than silently downgraded.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			h.error(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		id, err := auth.GetUserIDFromToken(token, []byte(h.config.SecretKey))
		if err != nil {
			h.error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser guards owner-only endpoints.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r.Context()) == "" {
			h.error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientInfo captures the request metadata recorded in audit events.
func clientInfo(r *http.Request) models.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return models.ClientInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		Language:  r.Header.Get("Accept-Language"),
	}
}
