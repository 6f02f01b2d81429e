// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/micdr93/yardly/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// ParseIDParam reads a positive integer path parameter such as ":id".
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid %s: %q", name, raw)
	}
	return uint(id), nil
}
