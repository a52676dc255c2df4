// Package middleware provides HTTP middleware for authenticating API clients.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const principalKey ContextKey = "principal"

// APIKeyHeader carries a static API key.
const APIKeyHeader = "X-API-Key"

// Authentication methods recorded on a Principal.
const (
	MethodJWT    = "jwt"
	MethodAPIKey = "api_key"
)

// TokenValidator validates Bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (ClientIDGetter, error)
}

// ClientIDGetter extracts the client ID from token claims.
type ClientIDGetter interface {
	GetClientID() uuid.UUID
}

// KeyVerifier checks a presented API key.
type KeyVerifier interface {
	VerifyAPIKey(key string) bool
}

// Principal identifies an authenticated caller. ClientID is uuid.Nil for API key callers.
type Principal struct {
	ClientID uuid.UUID
	Method   string
}

// AuthMiddleware accepts either a valid Bearer token or a valid X-API-Key.
// A nil validator or verifier disables that mechanism; with both nil every request passes.
func AuthMiddleware(tokens TokenValidator, keys KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokens == nil && keys == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authenticate(r, tokens, keys)
			if !ok {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, tokens TokenValidator, keys KeyVerifier) (Principal, bool) {
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" && keys != nil {
		if keys.VerifyAPIKey(key) {
			return Principal{Method: MethodAPIKey}, true
		}
		return Principal{}, false
	}

	if tokens == nil {
		return Principal{}, false
	}

	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Principal{}, false
	}

	claims, err := tokens.ValidateToken(parts[1])
	if err != nil {
		return Principal{}, false
	}
	return Principal{ClientID: claims.GetClientID(), Method: MethodJWT}, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="resume-reviewer"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

// GetPrincipal extracts the authenticated caller from the request context.
func GetPrincipal(r *http.Request) (Principal, error) {
	principal, ok := r.Context().Value(principalKey).(Principal)
	if !ok {
		return Principal{}, fmt.Errorf("principal not found in request context")
	}
	return principal, nil
}
