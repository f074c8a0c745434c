package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthcare-plus-api/config"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	return NewAuthMiddleware(jwtService, client), jwtService, client
}

func issueToken(t *testing.T, jwtService *jwt.JWTService, client *redis.Client, subjectID uuid.UUID, role string) string {
	t.Helper()

	token, tokenID, err := jwtService.GenerateAccessToken(subjectID, "jane", role)
	require.NoError(t, err)

	key := fmt.Sprintf("access_token:%s:%s", subjectID.String(), tokenID)
	require.NoError(t, client.Set(context.Background(), key, "1", time.Minute).Err())

	return token
}

func okHandler(sawIdentity *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			*sawIdentity = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	auth, jwtService, client := newTestAuth(t)
	token := issueToken(t, jwtService, client, uuid.New(), entity.RolePatient)

	var sawIdentity bool
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Authenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawIdentity)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.Authenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, sawIdentity)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	auth, jwtService, client := newTestAuth(t)
	subjectID := uuid.New()
	token := issueToken(t, jwtService, client, subjectID, entity.RolePatient)

	// Revoke everything the subject holds.
	keys, err := client.Keys(context.Background(), fmt.Sprintf("access_token:%s:*", subjectID.String())).Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	require.NoError(t, client.Del(context.Background(), keys...).Err())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.Authenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	auth, jwtService, _ := newTestAuth(t)

	token, _, err := jwtService.GenerateRefreshToken(uuid.New(), "jane", entity.RolePatient)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.Authenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthenticate_AnonymousPassesThrough(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.OptionalAuthenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawIdentity)
}

func TestOptionalAuthenticate_ValidTokenSetsIdentity(t *testing.T) {
	auth, jwtService, client := newTestAuth(t)
	token := issueToken(t, jwtService, client, uuid.New(), entity.RolePatient)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.OptionalAuthenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawIdentity)
}

func TestOptionalAuthenticate_BadTokenRejected(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	var sawIdentity bool
	auth.OptionalAuthenticate(okHandler(&sawIdentity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	auth, jwtService, client := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := auth.Authenticate(RequireAdmin(next))

	patientToken := issueToken(t, jwtService, client, uuid.New(), entity.RolePatient)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := issueToken(t, jwtService, client, uuid.Nil, entity.RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
