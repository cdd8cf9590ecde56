package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"invitation-canvas-editor/auth"
	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
}

type Auth struct {
	UserService UserProvider
}

// AuthMiddleWare requires a bearer token, or a token query parameter for
// EventSource clients that cannot set headers.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		var token string
		tokenQuery := ctx.Query("token")

		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if tokenQuery != "" {
			token = tokenQuery
		} else {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, tokenVersion, err := auth.GetDataFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}

		if user.TokenVersion != tokenVersion {
			ctx.Error(errors.Unauthorized("Invalid token version!", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("user_role", user.Role)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}
