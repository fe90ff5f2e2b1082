package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/missionboard/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = utils.ContextUserIDKey
	// ContextTokenKey stores the raw bearer token for logout.
	ContextTokenKey = "token"
	// ContextTokenExpiryKey stores the token expiry as time.Time.
	ContextTokenExpiryKey = "token_expires_at"
)

const (
	msgTokenRequired = "인증 토큰이 필요합니다."
	msgTokenInvalid  = "유효하지 않은 토큰입니다."
)

// AuthRequired ensures the request carries a valid, unrevoked bearer JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, msgTokenRequired)
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, msgTokenInvalid)
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, msgTokenRequired)
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(ctx.Request.Context(), tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, msgTokenInvalid)
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, msgTokenInvalid)
			ctx.Abort()
			return
		}

		expiresAt := time.Now().Add(utils.TokenTTL())
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextTokenExpiryKey, expiresAt)
		ctx.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}
