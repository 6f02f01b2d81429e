package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken returns the token part of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(c *gin.Context) (string, error) {

	const BearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(BearerSchema) || !strings.HasPrefix(authHeader, BearerSchema) {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return authHeader[len(BearerSchema):], nil

}
