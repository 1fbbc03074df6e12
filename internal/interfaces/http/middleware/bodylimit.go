package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pimsync/connector/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies above maxBytes. A declared Content-Length
// over the limit is refused up front; chunked requests are cut off by
// MaxBytesReader once they cross it.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
