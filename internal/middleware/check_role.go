package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRole will protect endpoint from user that is not one of the given user types
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := currentUser(ctx)
		if !ok {
			return
		}

		if !slices.Contains(roles, user.UserType) {
			abort(ctx, http.StatusForbidden, "User doesn't have permission to access")
			return
		}

		ctx.Next()
	}
}
