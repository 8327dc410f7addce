package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ManxCat/tradeproof/configs"
	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/whop"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserIDContextKey      = "userID"
	UsernameContextKey    = "username"
	AccessLevelContextKey = "accessLevel"

	// UserTokenHeader carries the signed user token the host platform
	// injects on every embedded-app request.
	UserTokenHeader = "X-Whop-User-Token"

	demoUserID = "demo-user"
)

// WhopClient resolves access levels. Assigned once at startup.
var WhopClient whop.ClientInterface

// Authenticated verifies the host-supplied user token (HS256, signed with
// the app secret) and puts the user id and username into the request
// context. In demo mode a missing token resolves to the demo user instead of
// failing, which is how the app behaves before it is installed into a real
// community.
func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get(UserTokenHeader)
		if tokenStr == "" {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			if configs.AppConfig.Whop.DemoMode {
				ctx := context.WithValue(r.Context(), UserIDContextKey, demoUserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			httputil.WriteError(w, http.StatusUnauthorized, "missing user token")
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.AppConfig.Whop.AppSecret), nil
		})
		if err != nil || !token.Valid {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired user token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			logger.Log.Error("user token subject missing or wrong type")
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token payload")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, sub)
		if username, ok := claims["name"].(string); ok {
			ctx = context.WithValue(ctx, UsernameContextKey, username)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAccess resolves the caller's access level for the experience in the
// URL and enforces the required minimum. Users without access are rejected
// outright; statistics themselves are role-agnostic and only ever see
// already-filtered rows.
func RequireAccess(required whop.AccessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(UserIDContextKey).(string)
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			experienceID := chi.URLParam(r, "experienceID")
			if experienceID == "" {
				httputil.WriteError(w, http.StatusBadRequest, "missing experience id")
				return
			}

			level, err := WhopClient.CheckAccess(r.Context(), userID, experienceID)
			if err != nil {
				httputil.WriteError(w, http.StatusBadGateway, "failed to verify access")
				return
			}
			if level == whop.AccessNone {
				httputil.WriteError(w, http.StatusForbidden, "no access to this experience")
				return
			}
			if required == whop.AccessAdmin && level != whop.AccessAdmin {
				httputil.WriteError(w, http.StatusForbidden, "admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), AccessLevelContextKey, level)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
