package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ManxCat/tradeproof/configs"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/whop"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-app-secret"

type stubWhopClient struct {
	level whop.AccessLevel
}

func (s *stubWhopClient) CheckAccess(ctx context.Context, userID, experienceID string) (whop.AccessLevel, error) {
	return s.level, nil
}

func (s *stubWhopClient) GetMembership(ctx context.Context, membershipID string) (*whop.Membership, error) {
	return nil, nil
}

func (s *stubWhopClient) CancelMembership(ctx context.Context, membershipID string) error {
	return nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func setupAuthTest(t *testing.T, level whop.AccessLevel, required whop.AccessLevel) http.Handler {
	t.Helper()
	logger.Init("error", "json")
	configs.AppConfig.Whop.AppSecret = testSecret
	configs.AppConfig.Whop.DemoMode = false
	WhopClient = &stubWhopClient{level: level}

	r := chi.NewRouter()
	r.With(Authenticated, RequireAccess(required)).
		Get("/experiences/{experienceID}/ping", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := r.Context().Value(UserIDContextKey).(string)
			w.Write([]byte(userID))
		})
	return r
}

func TestAuthenticatedValidToken(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessMember)

	token := signToken(t, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set(UserTokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_1", rec.Body.String())
}

func TestAuthenticatedAcceptsBearerHeader(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessMember)

	token := signToken(t, jwt.MapClaims{
		"sub": "user_2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_2", rec.Body.String())
}

func TestAuthenticatedMissingToken(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessMember)

	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedBadSignature(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessMember)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_1"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set(UserTokenHeader, signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedExpiredToken(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessMember)

	token := signToken(t, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set(UserTokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAccessRejectsMemberFromAdminRoute(t *testing.T) {
	router := setupAuthTest(t, whop.AccessMember, whop.AccessAdmin)

	token := signToken(t, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set(UserTokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAccessRejectsNoAccess(t *testing.T) {
	router := setupAuthTest(t, whop.AccessNone, whop.AccessMember)

	token := signToken(t, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	req.Header.Set(UserTokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDemoModeGrantsDemoUser(t *testing.T) {
	router := setupAuthTest(t, whop.AccessAdmin, whop.AccessMember)
	configs.AppConfig.Whop.DemoMode = true

	req := httptest.NewRequest(http.MethodGet, "/experiences/exp_1/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo-user", rec.Body.String())
}
