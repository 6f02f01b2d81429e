// Package company provides HTTP handlers for employer companies.
package company

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
)

// CompanyController handles company related endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

// GetCompanies lists companies ordered by name.
// @Summary List companies
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Substring of company name, case insensitive"
// @Param industry query string false "Substring of industry, case insensitive"
// @Param size query string false "Exact company size" Enums(1-10, 11-50, 51-200, 201-500, 501-1000, 1001+)
// @Success 200 {array} model.Company
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) GetCompanies(c *gin.Context) {
	result := cc.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))

	if search := c.Query("search"); search != "" {
		result = result.Where(controller.ContainsFold("name", search))
	}
	if industry := c.Query("industry"); industry != "" {
		result = result.Where(controller.ContainsFold("industry", industry))
	}
	if size := c.Query("size"); size != "" {
		result = result.Where("size = ?", size)
	}

	companies := []model.Company{}
	if err := result.Order("name").Find(&companies).Error; err != nil {
		controller.RespondFindError(c, "Companies", err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

// GetCompanyByID returns a company with its active job postings.
// @Summary Get company by ID
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Success 200 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	company := model.Company{}
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("JobPostings", "status = ?", model.JobStatusActive).
		First(&company, id).Error; err != nil {
		controller.RespondFindError(c, "Company", err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// CreateCompany creates a company.
// @Summary Create company
// @Description Only recruiters and admins have access to this endpoint
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param company body model.EditableCompanyInfo true "Company information"
// @Success 201 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not a recruiter or admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [post]
func (cc *CompanyController) CreateCompany(c *gin.Context) {
	company := model.Company{}
	if err := controller.DecodeStrict(c, &company.EditableCompanyInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := cc.DB.WithContext(c.Request.Context()).Create(&company).Error; err != nil {
		controller.RespondSaveError(c, "create company", err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// EditCompany overwrites the given fields of a company.
// @Summary Edit company
// @Description Only recruiters and admins have access to this endpoint
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Param company body model.EditableCompanyInfo true "Fields to overwrite"
// @Success 200 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not a recruiter or admin"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [patch]
func (cc *CompanyController) EditCompany(c *gin.Context) {
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	company := model.Company{}
	if err := db.First(&company, id).Error; err != nil {
		controller.RespondFindError(c, "Company", err)
		return
	}

	if err := controller.DecodeStrict(c, &company.EditableCompanyInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Save(&company).Error; err != nil {
		controller.RespondSaveError(c, "update company", err)
		return
	}

	c.JSON(http.StatusOK, company)
}
