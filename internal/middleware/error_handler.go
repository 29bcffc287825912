package middleware

import (
	"github.com/gin-gonic/gin"

	"direct_chat/pkg/errors"
)

// ErrorHandler — терминальный маппер для ошибок, накопленных через c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			statusCode := errors.HTTPStatusFromError(err.Err)

			c.JSON(statusCode, gin.H{
				"error": err.Error(),
			})
		}
	}
}
