// Package jobpost provides HTTP handlers for job posting related operations.
package jobpost

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// JobPostController handles job posting related endpoints
type JobPostController struct {
	DB *database.DBinstanceStruct
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct) *JobPostController {
	return &JobPostController{
		DB: db,
	}
}

// CreateJobPosting is the request body of CreateJobPostHandler
type CreateJobPosting struct {
	CompanyID uint `json:"company_id"`
	*model.EditableJobPostingInfo
}

func canManage(user model.User, job model.JobPosting) bool {
	return job.RecruiterID == user.ID || user.IsAdmin()
}

// CreateJobPostHandler handles the creation of a new job posting by a recruiter.
// @Summary Create job posting based on given json structure
// @Description Only recruiters have access to this endpoint. Omitted fields take their defaults.
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body CreateJobPosting true "Input job posting information"
// @Success 201 {object} model.JobPosting "Successfully create job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, field value or company"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobPostController) CreateJobPostHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	job := model.NewJobPosting()
	body := CreateJobPosting{EditableJobPostingInfo: &job.EditableJobPostingInfo}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	company := model.Company{}
	if err := db.First(&company, body.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "company_id must reference an existing company"})
			return
		}
		controller.RespondFindError(c, "Company", err)
		return
	}

	job.CompanyID = company.ID
	job.RecruiterID = user.ID
	if err := db.Create(job).Error; err != nil {
		controller.RespondSaveError(c, "create job posting", err)
		return
	}
	job.Company = &company

	c.JSON(http.StatusCreated, job)
}

// GetPosts fetches all active job postings that match query from the database
// and returns them as a JSON response, newest first.
// @Summary Get active job postings based on query
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from title and description with substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Param remote_type query string false "Remote type, must exactly match" Enums(remote, hybrid, onsite)
// @Param employment_type query string false "Employment type, must exactly match" Enums(full_time, part_time, contract, internship)
// @Param skill query string false "Required skill, case insensitive"
// @Param company query string false "Search from company name with substring matching and case insensitive"
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Success 200 {array} model.JobPostingResponse "Return active job posting(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := jc.DB.WithContext(c.Request.Context()).
		Preload("Company").
		Preload("Applications").
		Scopes(controller.Paginate(c)).
		Where("job_postings.status = ?", model.JobStatusActive)

	if search := c.Query("search"); search != "" {
		titleQuery, pattern := controller.ContainsFold("job_postings.title", search)
		descQuery, _ := controller.ContainsFold("job_postings.description", search)
		result = result.Where(titleQuery+" OR "+descQuery, pattern, pattern)
	}
	if location := c.Query("location"); location != "" {
		result = result.Where(controller.ContainsFold("job_postings.location", location))
	}
	if remoteType := c.Query("remote_type"); remoteType != "" {
		result = result.Where("job_postings.remote_type = ?", remoteType)
	}
	if employmentType := c.Query("employment_type"); employmentType != "" {
		result = result.Where("job_postings.employment_type = ?", employmentType)
	}
	if skill := c.Query("skill"); skill != "" {
		result = result.Where(controller.JSONArrayHas("job_postings.skills_required", skill))
	}
	if company := c.Query("company"); company != "" {
		result = result.Joins("JOIN companies ON companies.id = job_postings.company_id").
			Where(controller.ContainsFold("companies.name", company))
	}

	var rawPosts []model.JobPosting
	if err := result.Order("job_postings.created_at DESC").Find(&rawPosts).Error; err != nil {
		controller.RespondFindError(c, "Job postings", err)
		return
	}

	posts := make([]model.JobPostingResponse, 0, len(rawPosts))
	for i := range rawPosts {
		posts = append(posts, rawPosts[i].ToJobPostingResponse(user))
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID fetches a job posting by its ID from the database
// and returns it as a JSON response.
// @Summary Get job posting by ID
// @Description Postings that are not active are only visible to their recruiter and admins
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPostingResponse "Return the job posting with the specified ID"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	job := model.JobPosting{}
	if err := jc.DB.WithContext(c.Request.Context()).
		Preload("Company").
		Preload("Applications").
		First(&job, id).Error; err != nil {
		controller.RespondFindError(c, "Job posting", err)
		return
	}

	if job.Status != model.JobStatusActive && !canManage(user, job) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
		return
	}

	c.JSON(http.StatusOK, job.ToJobPostingResponse(user))
}

// EditJobPost allows a recruiter to update a job posting they own.
// @Summary Edit job posting based on given json structure
// @Description Only the recruiter that owns the posting or an admin have access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param Jobpost body model.EditableJobPostingInfo true "Fields to overwrite"
// @Success 200 {object} model.JobPosting "Successfully update job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [patch]
func (jc *JobPostController) EditJobPost(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	job := model.JobPosting{}
	if err := db.First(&job, id).Error; err != nil {
		controller.RespondFindError(c, "Job posting", err)
		return
	}

	if !canManage(user, job) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this job posting",
		})
		return
	}

	if err := controller.DecodeStrict(c, &job.EditableJobPostingInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Save(&job).Error; err != nil {
		controller.RespondSaveError(c, "update job posting", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJobPost allows a recruiter to delete a job posting they own.
// Applications, their feedback and AI decision logs are deleted with it.
// @Summary Delete given job posting ID
// @Description Only the recruiter that owns the posting or an admin have access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobPostController) DeleteJobPost(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	job := model.JobPosting{}
	if err := db.First(&job, id).Error; err != nil {
		controller.RespondFindError(c, "Job posting", err)
		return
	}

	if !canManage(user, job) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to delete this job posting",
		})
		return
	}

	if err := db.Delete(&job).Error; err != nil {
		controller.RespondSaveError(c, "delete job posting", err)
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}

// GetJobApplications lists the applications received by a job posting.
// @Summary Get applications of a job posting
// @Description Only the recruiter that owns the posting or an admin have access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Param status query string false "Only applications in this status"
// @Success 200 {array} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not own this posting"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [get]
func (jc *JobPostController) GetJobApplications(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	job := model.JobPosting{}
	if err := db.First(&job, id).Error; err != nil {
		controller.RespondFindError(c, "Job posting", err)
		return
	}

	if !canManage(user, job) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applications of this job posting",
		})
		return
	}

	result := db.Preload("Candidate").Preload("Candidate.CandidateProfile").
		Scopes(controller.Paginate(c)).
		Where("job_id = ?", job.ID)
	if status := c.Query("status"); status != "" {
		result = result.Where("status = ?", status)
	}

	applications := []model.Application{}
	if err := result.Order("created_at").Find(&applications).Error; err != nil {
		controller.RespondFindError(c, "Applications", err)
		return
	}

	c.JSON(http.StatusOK, applications)
}
