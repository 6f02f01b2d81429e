// Package application provides HTTP handlers for job application operations.
package application

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct

	// Now is the clock used for deadlines and submitted_at.
	Now func() time.Time
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB:  db,
		Now: time.Now,
	}
}

// CreateApplication is the request body of ApplicationHandler
type CreateApplication struct {
	JobID               uint     `json:"job_id"`
	CoverLetter         string   `json:"cover_letter"`
	Resume              string   `json:"resume"`
	AdditionalDocuments []string `json:"additional_documents"`
	// Status is "submitted" (default) or "draft"
	Status string `json:"status"`
}

// UpdateStatus is the request body of UpdateStatusHandler
type UpdateStatus struct {
	Status string `json:"status"`
}

// ApplicationHandler handles the creation of a new job application by a candidate.
// @Summary Create job application
// @Description Only candidates can access this endpoint. A candidate can apply to a job posting once.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body CreateApplication true "Application information"
// @Success 201 {object} model.Application "Successfully apply to job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, closed posting or duplicate application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) ApplicationHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := CreateApplication{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	if body.Status == "" {
		body.Status = model.ApplicationStatusSubmitted
	}
	if body.Status != model.ApplicationStatusSubmitted && body.Status != model.ApplicationStatusDraft {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "status must be either draft or submitted",
		})
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	job := model.JobPosting{}
	if err := db.First(&job, body.JobID).Error; err != nil {
		controller.RespondFindError(c, "Job posting", err)
		return
	}

	now := ac.Now()
	if !job.IsOpen(now) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "This job posting is not accepting applications",
		})
		return
	}

	if body.Status == model.ApplicationStatusSubmitted && job.RequiresCoverLetter &&
		strings.TrimSpace(body.CoverLetter) == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "This job posting requires a cover letter",
		})
		return
	}

	application := model.NewApplication(user.ID, job.ID)
	application.CoverLetter = body.CoverLetter
	application.Resume = body.Resume
	if body.AdditionalDocuments != nil {
		application.AdditionalDocuments = body.AdditionalDocuments
	}
	if err := application.SetStatus(body.Status, now); err != nil {
		controller.RespondSaveError(c, "create application", err)
		return
	}

	if err := db.Omit(clause.Associations).Create(application).Error; err != nil {
		if database.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "You have already applied to this job posting",
			})
			return
		}
		controller.RespondSaveError(c, "create application", err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetMyApplications lists the applications of the authenticated candidate, newest first.
// @Summary Get my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Only applications in this status"
// @Success 200 {array} model.Application
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/mine [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := ac.DB.WithContext(c.Request.Context()).
		Preload("Job").
		Preload("Job.Company").
		Scopes(controller.Paginate(c)).
		Where("candidate_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		result = result.Where("status = ?", status)
	}

	applications := []model.Application{}
	if err := result.Order("created_at DESC").Find(&applications).Error; err != nil {
		controller.RespondFindError(c, "Applications", err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetApplicationByID returns one application to its candidate, the recruiter
// owning the job posting, or an admin.
// @Summary Get application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not allowed to view this application"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	application := model.Application{}
	if err := ac.DB.WithContext(c.Request.Context()).
		Preload("Job").
		Preload("Job.Company").
		Preload("Candidate").
		First(&application, id).Error; err != nil {
		controller.RespondFindError(c, "Application", err)
		return
	}

	if application.CandidateID != user.ID && application.Job.RecruiterID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view this application",
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// UpdateStatusHandler moves an application to any valid status.
// @Summary Update application status
// @Description Only the recruiter owning the job posting or an admin have access to this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Param status body UpdateStatus true "New status"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not own the job posting"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	application := model.Application{}
	if err := db.Preload("Job").First(&application, id).Error; err != nil {
		controller.RespondFindError(c, "Application", err)
		return
	}

	if application.Job.RecruiterID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to change the status of this application",
		})
		return
	}

	body := UpdateStatus{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := application.SetStatus(body.Status, ac.Now()); err != nil {
		controller.RespondSaveError(c, "update application status", err)
		return
	}

	if err := db.Omit(clause.Associations).Save(&application).Error; err != nil {
		controller.RespondSaveError(c, "update application status", err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// WithdrawHandler lets a candidate pull their application back.
// @Summary Withdraw application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or already withdrawn"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the candidate of this application"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/withdraw [post]
func (ac *ApplicationController) WithdrawHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	application := model.Application{}
	if err := db.First(&application, id).Error; err != nil {
		controller.RespondFindError(c, "Application", err)
		return
	}

	if application.CandidateID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to withdraw this application",
		})
		return
	}

	if application.Status == model.ApplicationStatusWithdrawn {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Application is already withdrawn",
		})
		return
	}

	if err := application.SetStatus(model.ApplicationStatusWithdrawn, ac.Now()); err != nil {
		controller.RespondSaveError(c, "withdraw application", err)
		return
	}
	if err := db.Omit(clause.Associations).Save(&application).Error; err != nil {
		controller.RespondSaveError(c, "withdraw application", err)
		return
	}

	c.JSON(http.StatusOK, application)
}
