package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexandr-bsu/memos-frorked/pkg/ctxmeta"
)

// HeaderRequestID — заголовок, в котором клиент может прислать свой id запроса.
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware берёт id из заголовка или генерирует UUID,
// кладёт его в контекст запроса и возвращает клиенту тем же заголовком.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
