package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (ClientIDGetter, error) {
	clientID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(clientID), nil
}

type testClaims uuid.UUID

func (c testClaims) GetClientID() uuid.UUID {
	return uuid.UUID(c)
}

type testKeyVerifier string

func (k testKeyVerifier) VerifyAPIKey(key string) bool {
	return key == string(k)
}

// principalHandler records the principal it was called with.
func principalHandler(t *testing.T, got *Principal, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		p, err := GetPrincipal(r)
		require.NoError(t, err)
		*got = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	clientID := uuid.New()
	tokens := &testTokenValidator{validTokens: map[string]uuid.UUID{"good-token": clientID}}
	keys := testKeyVerifier("rk_live_123")

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		want       Principal
	}{
		{"Valid bearer", map[string]string{"Authorization": "Bearer good-token"}, http.StatusOK, Principal{ClientID: clientID, Method: MethodJWT}},
		{"Lowercase scheme", map[string]string{"Authorization": "bearer good-token"}, http.StatusOK, Principal{ClientID: clientID, Method: MethodJWT}},
		{"Valid API key", map[string]string{APIKeyHeader: "rk_live_123"}, http.StatusOK, Principal{Method: MethodAPIKey}},
		{"Wrong API key", map[string]string{APIKeyHeader: "nope", "Authorization": "Bearer good-token"}, http.StatusUnauthorized, Principal{}},
		{"Unknown token", map[string]string{"Authorization": "Bearer bad"}, http.StatusUnauthorized, Principal{}},
		{"Basic scheme", map[string]string{"Authorization": "Basic good-token"}, http.StatusUnauthorized, Principal{}},
		{"Extra parts", map[string]string{"Authorization": "Bearer good-token extra"}, http.StatusUnauthorized, Principal{}},
		{"No credentials", nil, http.StatusUnauthorized, Principal{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Principal
			called := false
			handler := AuthMiddleware(tokens, keys)(principalHandler(t, &got, &called))

			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	called := false
	handler := AuthMiddleware(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, err := GetPrincipal(r)
		assert.Error(t, err)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.True(t, called)
}

func TestAuthMiddleware_KeyOnly(t *testing.T) {
	handler := AuthMiddleware(nil, testKeyVerifier("k"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/check", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set(APIKeyHeader, "k")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
