package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckActive refuses users whose account was deactivated by an admin.
// It must run after RequireAuth.
func CheckActive() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := currentUser(ctx)
		if !ok {
			return
		}
		if !user.IsActive {
			abort(ctx, http.StatusForbidden, "Account is inactive")
			return
		}
		ctx.Next()
	}
}
