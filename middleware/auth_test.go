package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func actorEcho(t *testing.T, captured *Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := GetActorFromContext(r.Context())
		require.NoError(t, err)
		*captured = actor
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	auth := NewAuth(testSecret)
	var captured Actor
	handler := auth.Authenticate(actorEcho(t, &captured))

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":  "participant-1",
		"role": RoleParticipant,
		"name": "Jane",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/selections", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Actor{ID: "participant-1", Role: RoleParticipant, Name: "Jane"}, captured)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	auth := NewAuth(testSecret)
	handler := auth.Authenticate(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/selections", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	auth := NewAuth(testSecret)
	handler := auth.Authenticate(http.NotFoundHandler())

	token := signedToken(t, "another-secret", jwt.MapClaims{
		"sub":  "participant-1",
		"role": RoleParticipant,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/selections", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	auth := NewAuth(testSecret)
	handler := auth.Authenticate(http.NotFoundHandler())

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":  "participant-1",
		"role": RoleParticipant,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/selections", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_UnknownRoleRejected(t *testing.T) {
	auth := NewAuth(testSecret)
	handler := auth.Authenticate(http.NotFoundHandler())

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":  "someone",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/selections", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthorize_RoleMismatch(t *testing.T) {
	auth := NewAuth(testSecret)
	var captured Actor
	handler := auth.Authenticate(Authorize(RoleAdmin)(actorEcho(t, &captured)))

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":  "participant-1",
		"role": RoleParticipant,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthorize_RoleMatch(t *testing.T) {
	auth := NewAuth(testSecret)
	var captured Actor
	handler := auth.Authenticate(Authorize(RoleAdmin)(actorEcho(t, &captured)))

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":  "admin-1",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, RoleAdmin, captured.Role)
}
