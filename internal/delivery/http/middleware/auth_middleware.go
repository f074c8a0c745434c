package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"healthcare-plus-api/pkg/jwt"
	"healthcare-plus-api/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
	TokenIDKey  contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, errMsg := m.resolveClaims(r)
		if claims == nil {
			response.Unauthorized(w, errMsg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuthenticate resolves identity when a bearer token is present but
// lets anonymous requests through. Used on the public booking endpoint, where
// a logged-in patient gets the appointment linked to their account and a
// walk-in booking proceeds without one.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, errMsg := m.resolveClaims(r)
		if claims == nil {
			// A token was sent but is unusable; reject rather than silently
			// downgrading to anonymous.
			response.Unauthorized(w, errMsg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// resolveClaims validates the bearer token and its revocation state. Returns
// nil claims and a client-safe message on failure.
func (m *AuthMiddleware) resolveClaims(r *http.Request) (*jwt.Claims, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "Authorization header is required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "Invalid authorization header format"
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, "Invalid or expired token"
	}

	if claims.TokenType != jwt.AccessToken {
		return nil, "Invalid token type"
	}

	// Token must still be registered in Redis (not revoked by logout).
	tokenKey := fmt.Sprintf("access_token:%s:%s", claims.SubjectID.String(), claims.TokenID)
	exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
	if err != nil {
		return nil, "Failed to validate token"
	}
	if exists == 0 {
		return nil, "Token has been revoked"
	}

	return claims, ""
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.SubjectID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts the subject ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUsernameFromContext extracts the username from context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetRoleFromContext extracts the role from context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetTokenIDFromContext extracts the token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
