package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "investrack/internal/errors"
	"investrack/internal/logger"
)

// ErrorHandler is the safety net behind the handlers' own error responses:
// any error a handler attaches to the Gin context instead of rendering
// itself is converted here into the API's error envelope. Domain errors
// keep their code, message, and mapped status; anything unexpected is
// logged in full and surfaces as a generic 500 so internals never leak
// into a response body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("request failed",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			c.JSON(appErr.StatusCode, gin.H{
				"error": gin.H{
					"code":      appErr.Code,
					"message":   appErr.Message,
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			})
			return
		}

		logger.Get().Errorw("unhandled request error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
			"error": gin.H{
				"code":      apperrors.ErrInternalServer.Code,
				"message":   apperrors.ErrInternalServer.Message,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}
