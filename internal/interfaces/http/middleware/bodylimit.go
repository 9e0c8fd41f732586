package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comercium/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that rejects oversized request bodies.
// Declared lengths are checked up front; chunked uploads are capped by
// a MaxBytesReader so handlers see an error instead of unbounded input.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
