package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"orderflow/internal/entities"
	"orderflow/pkg/auth"
	"orderflow/pkg/logger"
)

type contextKey int

const contextKeyRequester contextKey = iota

const bearerPrefix = "bearer "

// Middleware resolves the bearer token into an entities.Requester stored in the
// request context. Requests without a valid token are rejected with 401.
func Middleware(log handlerLogger, verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, log, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				log.With(
					logger.NewField("path", r.URL.Path),
					logger.NewField("error", err),
				).Warn("rejected bearer token")

				message := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					message = "token expired"
				}
				unauthorized(w, log, message)
				return
			}

			requester := entities.Requester{
				ID:   claims.Subject,
				Role: entities.ParseRole(claims.Role),
			}
			next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), requester)))
		})
	}
}

func WithRequester(ctx context.Context, requester entities.Requester) context.Context {
	return context.WithValue(ctx, contextKeyRequester, requester)
}

// RequesterFromContext returns the zero Requester when the request was not authenticated.
func RequesterFromContext(ctx context.Context) entities.Requester {
	requester, _ := ctx.Value(contextKeyRequester).(entities.Requester)
	return requester
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, log handlerLogger, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="orders"`)
	w.WriteHeader(http.StatusUnauthorized)

	_, err := w.Write([]byte(`{"error":"` + message + `"}`))
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("failed to write unauthorized response")
	}
}
