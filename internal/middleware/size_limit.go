package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes caps JSON request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// SizeLimit wraps the request body so reading past maxBodyBytes fails with
// *http.MaxBytesError. Requests that announce a larger Content-Length are
// refused with 413 before the handler runs.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err was caused by reading past the SizeLimit.
func IsBodyTooLarge(err error) bool {
	var maxBytesError *http.MaxBytesError
	return errors.As(err, &maxBytesError)
}
