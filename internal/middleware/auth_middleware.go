package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/errors"
	"github.com/tteokbok/tteokbok-backend/pkg/redis"
	"github.com/tteokbok/tteokbok-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey = "user_id"
	TokenKey  = "token"
)

type AuthMiddleware struct {
	jwtSecret    string
	userRepo     repository.UserRepository
	redisEnabled bool
}

func NewAuthMiddleware(jwtSecret string, userRepo repository.UserRepository, redisEnabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		userRepo:     userRepo,
		redisEnabled: redisEnabled,
	}
}

// resolveUserID 토큰을 검증하고 실존 사용자의 ID를 돌려준다.
// 실패 시 두 번째 반환값에 거부 사유 태그가 담긴다.
func (m *AuthMiddleware) resolveUserID(c *gin.Context, token string) (uint, string) {
	if m.redisEnabled {
		blacklisted, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
		if err == nil && blacklisted {
			return 0, errors.TokenError
		}
	}

	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return 0, errors.TokenError
	}

	// 토큰이 유효해도 탈퇴한 사용자는 거부한다
	if _, err := m.userRepo.FindByID(claims.UserID); err != nil {
		return 0, errors.InvalidUser
	}

	return claims.UserID, ""
}

// extractToken Authorization 헤더 우선, 없으면 웹소켓용 쿼리 파라미터
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], true
		}
		// Bearer 접두사 없이 토큰만 보내는 클라이언트도 있다
		if len(parts) == 1 {
			return parts[0], true
		}
		return "", false
	}

	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := extractToken(c)
		if !ok || token == "" {
			log.Warn("Missing authorization token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, errors.UnauthorizationError, "")
			c.Abort()
			return
		}

		userID, reason := m.resolveUserID(c, token)
		if reason != "" {
			log.Warn("Token rejected", map[string]interface{}{
				"path":   c.Request.URL.Path,
				"reason": reason,
			})
			errors.Unauthorized(c, reason, "")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(TokenKey, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": userID,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues as guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := extractToken(c)
		if !ok || token == "" {
			c.Next()
			return
		}

		userID, reason := m.resolveUserID(c, token)
		if reason != "" {
			log.Debug("Token rejected - continuing as guest", map[string]interface{}{
				"path":   c.Request.URL.Path,
				"reason": reason,
			})
			c.Next()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(TokenKey, token)

		log.Debug("User authenticated successfully (optional)", map[string]interface{}{
			"user_id": userID,
		})

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetToken extracts raw token from context
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}
