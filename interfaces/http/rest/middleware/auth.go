package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"memoryvault/pkg/auth"
	"memoryvault/pkg/common"
	pkgerrors "memoryvault/pkg/errors"
)

// Authenticate validates the bearer token and attaches the identity to
// the request context. Requests are rate limited per client IP before
// validation and per user after it.
func Authenticate(tokens *auth.TokenManager) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewKeyedRateLimiter(100)
	userLimiter := auth.NewKeyedRateLimiter(200)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ipLimiter.Allow(clientIP(r)) {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "rate limit exceeded")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					respondUnauthorized(w, "token has expired")
					return
				}
				respondUnauthorized(w, "invalid token")
				return
			}

			if !userLimiter.Allow(claims.UserID) {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "user rate limit exceeded")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate attaches the identity when a request carries a
// valid bearer token and passes it through untouched otherwise. Used on
// public endpoints whose responses include viewer-specific fields.
func OptionalAuthenticate(tokens *auth.TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := tokens.Validate(token); err == nil {
					ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
						UserID: claims.UserID,
						Email:  claims.Email,
						Name:   claims.Name,
						Role:   claims.Role,
					})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose identity does not carry the admin
// role. Must run after Authenticate.
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				respondUnauthorized(w, "unauthorized")
				return
			}
			if !user.IsAdmin() {
				common.RespondError(w, http.StatusForbidden,
					string(pkgerrors.ErrorTypeForbidden), "admin privileges required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	common.RespondAppError(w, pkgerrors.NewUnauthorizedError(message))
}
