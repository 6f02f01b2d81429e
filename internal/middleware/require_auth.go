// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

func abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, utilities.ErrorResponse{Error: message})
}

// currentUser returns the user stored by RequireAuth, aborting with 401 when
// the chain did not run it.
func currentUser(ctx *gin.Context) (model.User, bool) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		abort(ctx, http.StatusUnauthorized, err.Error())
		return model.User{}, false
	}
	return user, true
}

// tokenError turns a ValidatedToken failure into the message shown to the client.
func tokenError(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Access token expired"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "Invalid token issuer"
	default:
		return fmt.Sprintf("Failed to validate token: %s", err.Error())
	}
}

// RequireAuth validates the Bearer token in the Authorization header, loads
// the user it was issued to and stores it under "user" in the context.
// The parsed claims are stored under "claims" for the logout handler.
func RequireAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, err.Error())
			return
		}

		token, err := auth.ValidatedToken(tokenString)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, tokenError(err))
			return
		}
		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !token.Valid || !ok {
			abort(ctx, http.StatusUnauthorized, "Invalid access token")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, "Invalid token subject")
			return
		}
		ctx.Set("claims", claims)

		var foundUser model.User
		err = db.WithContext(ctx.Request.Context()).Where("id = ?", userID).First(&foundUser).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			abort(ctx, http.StatusUnauthorized, "User not exist")
			return
		case err != nil:
			abort(ctx, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve user data: %s", err.Error()))
			return
		}

		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
