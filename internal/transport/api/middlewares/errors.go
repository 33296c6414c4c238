package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// statusErrorText текст для непубличных ошибок. Подробности 5xx наружу не отдаются.
func statusErrorText(status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "internal server error"
	}
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return "internal server error"
}

// Errors отдает клиенту первую ошибку из контекста.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		msg := statusErrorText(status)
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		}

		if strings.Contains(c.GetHeader("Accept"), "application/json") ||
			strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			c.JSON(status, gin.H{"error": msg})
		} else {
			c.String(status, msg)
		}
		c.Abort()
	}
}
