package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func doRequest(authHeader string) (*httptest.ResponseRecorder, string) {
	var gotSubject string
	handler := NewJWTAuthenticator(testSecret).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSubject, _ = GetSubject(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("GET", "/parties/1/project-manager", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotSubject
}

func TestMiddlewareValidToken(t *testing.T) {
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, subject := doRequest("Bearer " + tokenStr)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", subject)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	rec, _ := doRequest("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization missing")
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	rec, _ := doRequest("Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Malformed authorization header")
}

func TestMiddlewareBadSignature(t *testing.T) {
	tokenStr := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer " + tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer " + tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareMissingSubject(t *testing.T) {
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer " + tokenStr)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token missing subject")
}
