// Package admin provides a generic back office API over every model.
package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/utilities"
)

// readOnlyKeys are never accepted in a create or update body.
var readOnlyKeys = []string{"id", "created_at", "updated_at"}

// badBodyError marks a request body the admin API could not decode.
type badBodyError struct{ err error }

func (e badBodyError) Error() string { return e.err.Error() }
func (e badBodyError) Unwrap() error { return e.err }

// decodeBody strictly decodes the request body into v after refusing the
// read only keys.
func decodeBody(c *gin.Context, v interface{}) error {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return badBodyError{err}
	}

	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &keys); err == nil {
		for _, k := range readOnlyKeys {
			if _, ok := keys[k]; ok {
				return badBodyError{fmt.Errorf("%s is read only", k)}
			}
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err := controller.DecodeStrict(c, v); err != nil {
		return badBodyError{err}
	}
	return nil
}

// AdminController serves the /admin/:resource endpoints
type AdminController struct {
	DB *database.DBinstanceStruct
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct) *AdminController {
	return &AdminController{
		DB: db,
	}
}

// ResourceIndex is the response of GetResources
type ResourceIndex struct {
	Resources []string `json:"resources"`
}

func (ac *AdminController) resolve(c *gin.Context) (resource, bool) {
	r, ok := registry[c.Param("resource")]
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown resource: %s", c.Param("resource")),
		})
		return nil, false
	}
	return r, true
}

// key parses the :id path parameter as a uuid or a positive integer
// depending on the primary key of r.
func (ac *AdminController) key(c *gin.Context, r resource) (interface{}, bool) {
	raw := c.Param("id")
	if r.uuidKey() {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Invalid id: %s", raw)})
			return nil, false
		}
		return id, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Invalid id: %s", raw)})
		return nil, false
	}
	return uint(id), true
}

func respondWriteError(c *gin.Context, action string, err error) {
	var bad badBodyError
	switch {
	case errors.As(err, &bad):
		controller.RespondBadBody(c, bad.err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		controller.RespondFindError(c, "Record", err)
	default:
		controller.RespondSaveError(c, action, err)
	}
}

// GetResources lists the resource names served by the admin API.
// @Summary List admin resources
// @Description Only admin can access this endpoints
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} ResourceIndex
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Router /admin [get]
func (ac *AdminController) GetResources(c *gin.Context) {
	c.JSON(http.StatusOK, ResourceIndex{Resources: resourceNames})
}

// ListRecords returns the records of a resource. Each resource declares the
// columns "search" matches and the query parameters usable as filters.
// @Summary List records of a resource
// @Description Only admin can access this endpoints
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource path string true "Resource name, see GET /admin"
// @Param search query string false "Case insensitive substring of any search field"
// @Param limit query integer false "Page size" default(50)
// @Param offset query integer false "Records to skip" default(0)
// @Success 200 {array} object
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Unknown resource"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/{resource} [get]
func (ac *AdminController) ListRecords(c *gin.Context) {
	r, ok := ac.resolve(c)
	if !ok {
		return
	}

	records, err := r.list(c, ac.DB.WithContext(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetRecord returns one record of a resource.
// @Summary Get a record
// @Description Only admin can access this endpoints
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource path string true "Resource name"
// @Param id path string true "Primary key, a uuid for users"
// @Success 200 {object} object
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Unknown resource or record"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/{resource}/{id} [get]
func (ac *AdminController) GetRecord(c *gin.Context) {
	r, ok := ac.resolve(c)
	if !ok {
		return
	}
	key, ok := ac.key(c, r)
	if !ok {
		return
	}

	record, err := r.get(ac.DB.WithContext(c.Request.Context()), key)
	if err != nil {
		controller.RespondFindError(c, "Record", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// CreateRecord inserts a record. Users are created with a hashed password
// and default preferences.
// @Summary Create a record
// @Description Only admin can access this endpoints
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource path string true "Resource name"
// @Param record body object true "Fields of the record"
// @Success 201 {object} object
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Unknown resource"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/{resource} [post]
func (ac *AdminController) CreateRecord(c *gin.Context) {
	r, ok := ac.resolve(c)
	if !ok {
		return
	}

	record, err := r.create(c, ac.DB.WithContext(c.Request.Context()))
	if err != nil {
		respondWriteError(c, "create record", err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateRecord applies the fields present in the body to a record. The role
// of a user can not be changed.
// @Summary Update a record
// @Description Only admin can access this endpoints
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource path string true "Resource name"
// @Param id path string true "Primary key, a uuid for users"
// @Param record body object true "Fields to change"
// @Success 200 {object} object
// @Failure 400 {object} utilities.ErrorResponse "Invalid id, request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Unknown resource or record"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/{resource}/{id} [patch]
func (ac *AdminController) UpdateRecord(c *gin.Context) {
	r, ok := ac.resolve(c)
	if !ok {
		return
	}
	key, ok := ac.key(c, r)
	if !ok {
		return
	}

	record, err := r.update(c, ac.DB.WithContext(c.Request.Context()), key)
	if err != nil {
		respondWriteError(c, "update record", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord deletes a record and everything that cascades from it.
// @Summary Delete a record
// @Description Only admin can access this endpoints
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource path string true "Resource name"
// @Param id path string true "Primary key, a uuid for users"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin or deleting yourself"
// @Failure 404 {object} utilities.ErrorResponse "Unknown resource or record"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/{resource}/{id} [delete]
func (ac *AdminController) DeleteRecord(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	r, ok := ac.resolve(c)
	if !ok {
		return
	}
	key, ok := ac.key(c, r)
	if !ok {
		return
	}

	if id, isUUID := key.(uuid.UUID); isUUID && r.name() == "users" && id == user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You can't delete your own account"})
		return
	}

	if err := r.delete(ac.DB.WithContext(c.Request.Context()), key); err != nil {
		respondWriteError(c, "delete record", err)
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Record deleted"})
}
