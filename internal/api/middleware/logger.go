package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request in the same bracketed style as the rest
// of the service.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		line := fmt.Sprintf("[API] %s %s %s %d %v",
			p.TimeStamp.Format(time.RFC3339),
			p.Method,
			p.Path,
			p.StatusCode,
			p.Latency.Round(time.Microsecond),
		)
		if p.ErrorMessage != "" {
			line += " " + p.ErrorMessage
		}
		return line + "\n"
	})
}
