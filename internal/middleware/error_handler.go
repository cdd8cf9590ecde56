package middleware

import (
	"github.com/gin-gonic/gin"

	apiError "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		if len(c.Errors) == 0 {
			return
		}
		apiErr := apiError.ToAPIError(c.Errors.Last().Err)

		if apiErr.Status >= 500 {
			logger.Errorf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), apiErr.Internal)
		} else {
			logger.Infof("[INFO] %s: %v", apiErr.Message, apiErr.Internal)
		}

		c.AbortWithStatusJSON(apiErr.Status, apiErr)
	}
}
