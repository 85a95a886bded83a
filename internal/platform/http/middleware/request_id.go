// Package middleware はすべてのルートに適用するginミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auth_backend/internal/platform/logging"
)

// HeaderRequestID はリクエストIDを受け渡すヘッダー名です。
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID はX-Request-IDヘッダーを引き継ぐか、なければUUIDを採番します。
// IDはレスポンスヘッダーに返し、ログ用にリクエストコンテキストへ格納します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
