package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"awn-booking/internal/domain/entity"
	"awn-booking/pkg/jwt"
	"awn-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	TokenIDKey   contextKey = "token_id"
)

// AccessTokenKey is the Redis key marking an access token as live.
func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

// RefreshTokenKey is the Redis key marking a refresh token as live.
func RefreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

// Authenticate rejects requests without a valid, non-revoked access token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		claims, status, msg := m.verify(r.Context(), authHeader)
		if claims == nil {
			if status == http.StatusInternalServerError {
				response.InternalServerError(w, msg)
				return
			}
			response.Unauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuthenticate attaches the caller identity when a valid token is sent
// and lets anonymous requests through. A bad token is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, status, msg := m.verify(r.Context(), authHeader)
		if claims == nil {
			if status == http.StatusInternalServerError {
				response.InternalServerError(w, msg)
				return
			}
			response.Unauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) verify(ctx context.Context, authHeader string) (*jwt.Claims, int, string) {
	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization header format"
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	if claims.TokenType != jwt.AccessToken {
		return nil, http.StatusUnauthorized, "Invalid token type"
	}

	// Check if token exists in Redis (not revoked)
	exists, err := m.redisClient.Exists(ctx, AccessTokenKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		m.log.Warnf("Failed to check access token in Redis: %+v", err)
		return nil, http.StatusInternalServerError, "Failed to validate token"
	}
	if exists == 0 {
		return nil, http.StatusUnauthorized, "Token has been revoked"
	}

	return claims, http.StatusOK, ""
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = WithIdentity(ctx, claims.UserID, claims.Email, claims.RoleID)
	return context.WithValue(ctx, TokenIDKey, claims.TokenID)
}

// WithIdentity stores the caller identity in ctx.
func WithIdentity(ctx context.Context, userID uuid.UUID, email string, roleID int) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return context.WithValue(ctx, RoleIDKey, roleID)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// ActorWithRole returns the caller id when the caller holds roleID.
func ActorWithRole(ctx context.Context, roleID int) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	role, ok := GetRoleIDFromContext(ctx)
	if !ok || role != roleID {
		return uuid.Nil, false
	}
	return userID, true
}

// IsAdmin reports whether the caller is an administrator.
func IsAdmin(ctx context.Context) bool {
	role, ok := GetRoleIDFromContext(ctx)
	return ok && role == entity.RoleIDAdmin
}
