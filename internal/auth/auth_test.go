package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radio-control/saltybridge/internal/audit"
)

const testSecret = "test-secret"

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)
	return v
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}

func TestVerifyToken(t *testing.T) {
	v := newVerifier(t)
	token, err := v.IssueToken("ops", time.Minute, ScopeControl)
	require.NoError(t, err)

	claims, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.True(t, claims.HasScope(ScopeControl))
	assert.False(t, claims.HasScope(ScopeEvents))
}

func TestVerifyTokenRejects(t *testing.T) {
	v := newVerifier(t)

	expired, err := v.IssueToken("ops", -time.Minute, ScopeControl)
	require.NoError(t, err)

	other, err := NewVerifier("other-secret")
	require.NoError(t, err)
	foreign, err := other.IssueToken("ops", time.Minute, ScopeControl)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not.a.token",
		"expired":    expired,
		"foreign":    foreign,
		"no expiry":  noExpiry,
		"no subject": noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestRequireScope(t *testing.T) {
	v := newVerifier(t)
	control, err := v.IssueToken("ops", time.Minute, ScopeControl)
	require.NoError(t, err)
	events, err := v.IssueToken("viewer", time.Minute, ScopeEvents)
	require.NoError(t, err)

	var actor string
	handler := NewMiddleware(v).RequireScope(ScopeControl)(func(w http.ResponseWriter, r *http.Request) {
		actor = audit.ActorFrom(r.Context())
		assert.Equal(t, "ops", ClaimsFromRequest(r).Subject)
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing scope", "Bearer " + events, http.StatusForbidden, "FORBIDDEN"},
		{"granted", "Bearer " + control, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "error", body["result"])
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
	assert.Equal(t, "ops", actor)
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	m := NewMiddleware(nil)
	assert.False(t, m.Enabled())

	called := false
	m.RequireScope(ScopeControl)(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, ClaimsFromRequest(r))
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}
