package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// RequestLogger — access-лог HTTP-запросов. Идентификаторы (request_id,
// trace/span) не пишем в строку: логгер сам достаёт их из контекста.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if skipAccessLog(c.FullPath()) {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}

// skipAccessLog — служебные маршруты, шумящие в логах.
func skipAccessLog(fullPath string) bool {
	switch fullPath {
	case "/metrics", "/ping":
		return true
	}
	return false
}
