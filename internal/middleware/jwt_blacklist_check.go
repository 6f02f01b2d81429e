package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/utilities"
)

// JwtBlacklistCheck refuses tokens revoked through logout.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, err.Error())
			return
		}

		revoked, err := bl.IsBlacklisted(tokenString)
		switch {
		case err != nil:
			abort(ctx, http.StatusInternalServerError, fmt.Sprintf("Failed to validate token: %s", err.Error()))
		case revoked:
			abort(ctx, http.StatusUnauthorized, "Token has been revoked")
		default:
			ctx.Next()
		}
	}
}
