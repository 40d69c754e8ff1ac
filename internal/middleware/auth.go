package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

const ContextTokenIDKey = "token_id"

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		token, err := auth.VerifyJWT(parts[1])

		if err != nil {
			abortUnauthorized(ctx, "Invalid or expired token")
			return
		}

		userID, tokenID, err := auth.ParseClaims(token)

		if err != nil {
			abortUnauthorized(ctx, "Invalid token claims")
			return
		}

		// A missing token row means the token was revoked (logout, or a
		// newer login replaced it).
		var accessToken models.AccessToken

		if err := db.DB.Where("id = ? AND user_id = ?", tokenID, userID).First(&accessToken).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(ctx, "Token has been revoked")
			} else {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, types.Envelope{
					Status:  "error",
					Message: "Internal server error",
				})
			}
			return
		}

		var user models.User

		if err := db.DB.First(&user, userID).Error; err != nil {
			abortUnauthorized(ctx, "User not found")
			return
		}

		now := time.Now()
		db.DB.Model(&accessToken).Update("last_used_at", &now)

		ctx.Set(types.ContextUserKey, &user)
		ctx.Set(ContextTokenIDKey, tokenID)
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.Envelope{
		Status:  "error",
		Message: message,
	})
}
