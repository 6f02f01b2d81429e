// Package controller holds the request helpers shared by the HTTP handler packages.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/middleware"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// Page size limits of list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// DecodeStrict decodes the JSON request body into v and refuses unknown
// fields. Decoding into an already loaded struct overlays only the keys
// present in the body.
func DecodeStrict(c *gin.Context, v interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

// RespondBadBody writes the 400 or 413 response for a DecodeStrict error.
func RespondBadBody(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: "Request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
		Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
	})
}

// RespondFindError writes 404 when what does not exist and 500 otherwise.
func RespondFindError(c *gin.Context, what string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
		Error: fmt.Sprintf("Failed to retrieve %s: %s", what, err.Error()),
	})
}

// RespondSaveError maps a failed create, update or delete to a response.
// Validation failures and integrity violations are the client's fault.
func RespondSaveError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	case database.IsDuplicateKey(err):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to %s: record already exists", action),
		})
	case database.IsForeignKeyViolation(err):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to %s: referenced record does not exist", action),
		})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to %s: %s", action, err.Error()),
		})
	}
}

// CurrentUser extracts the authenticated user and writes 401 when missing.
func CurrentUser(c *gin.Context) (model.User, bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.User{}, false
	}
	return user, true
}

// PathID parses the positive integer path parameter name and writes 400 when invalid.
func PathID(c *gin.Context, name string) (uint, bool) {
	id, err := utilities.ParseIDParam(c, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return 0, false
	}
	return id, true
}

// Paginate is a gorm scope reading the "limit" and "offset" query parameters.
func Paginate(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit, err := strconv.Atoi(c.Query("limit"))
		if err != nil || limit <= 0 {
			limit = DefaultPageSize
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
		offset, err := strconv.Atoi(c.Query("offset"))
		if err != nil || offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// LikeClause is the case insensitive LIKE test on expr used with the
// patterns built by ContainsPattern.
func LikeClause(expr string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, expr)
}

// ContainsPattern returns the LIKE pattern matching value anywhere, with
// value lowered and its wildcards escaped.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

// ContainsFold returns the SQL fragment and pattern of a case insensitive
// substring match on column that works on both PostgreSQL and SQLite.
func ContainsFold(column string, value string) (string, string) {
	return LikeClause(column), ContainsPattern(value)
}

// JSONArrayHas returns a case insensitive membership test of value in the
// JSON string array stored in column.
func JSONArrayHas(column string, value string) (string, string) {
	b, _ := json.Marshal(strings.ToLower(value))
	return LikeClause(fmt.Sprintf("CAST(%s AS TEXT)", column)), "%" + likeEscaper.Replace(string(b)) + "%"
}

