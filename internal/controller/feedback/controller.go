// Package feedback provides HTTP handlers for personalized application
// feedback, candidate responses and recruiter feedback templates.
package feedback

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// FeedbackController handles feedback related endpoints
type FeedbackController struct {
	DB *database.DBinstanceStruct
}

// NewFeedbackController creates a new instance of FeedbackController
func NewFeedbackController(db *database.DBinstanceStruct) *FeedbackController {
	return &FeedbackController{
		DB: db,
	}
}

// CreateResponse is the request body of CreateResponseHandler
type CreateResponse struct {
	ResponseText string `json:"response_text"`
	IsPublic     bool   `json:"is_public"`
}

// EditableTemplate is the request body of CreateTemplateHandler
type EditableTemplate struct {
	Name                string `json:"name"`
	FeedbackType        string `json:"feedback_type"`
	StrengthsTemplate   string `json:"strengths_template"`
	ImprovementTemplate string `json:"improvement_template"`
	CommentsTemplate    string `json:"comments_template"`
}

func (fc *FeedbackController) loadApplication(c *gin.Context, db *gorm.DB) (model.Application, bool) {
	id, ok := controller.PathID(c, "id")
	if !ok {
		return model.Application{}, false
	}

	application := model.Application{}
	if err := db.Preload("Job").First(&application, id).Error; err != nil {
		controller.RespondFindError(c, "Application", err)
		return model.Application{}, false
	}
	return application, true
}

// CreateFeedbackHandler records feedback on an application. Strengths and
// areas for improvement need at least 50 characters and detailed comments
// at least 100.
// @Summary Give feedback on an application
// @Description Only the recruiter owning the job posting has access to this endpoint
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Param feedback body model.EditableFeedbackInfo true "Feedback"
// @Success 201 {object} model.ApplicationFeedback
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or feedback not personalized"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not own the job posting"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/feedback [post]
func (fc *FeedbackController) CreateFeedbackHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := fc.DB.WithContext(c.Request.Context())
	application, ok := fc.loadApplication(c, db)
	if !ok {
		return
	}

	if application.Job.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only the recruiter of this job posting can give feedback",
		})
		return
	}

	feedback := model.NewApplicationFeedback()
	if err := controller.DecodeStrict(c, &feedback.EditableFeedbackInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	feedback.ApplicationID = application.ID
	feedback.ProvidedByID = user.ID

	if err := db.Omit(clause.Associations).Create(feedback).Error; err != nil {
		controller.RespondSaveError(c, "create feedback", err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetFeedbackHandler lists the feedback of an application with the
// candidate's responses. Candidates only see feedback made visible to them.
// @Summary Get feedback of an application
// @Tags Feedback
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 200 {array} model.ApplicationFeedback
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not allowed to view this feedback"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/feedback [get]
func (fc *FeedbackController) GetFeedbackHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := fc.DB.WithContext(c.Request.Context())
	application, ok := fc.loadApplication(c, db)
	if !ok {
		return
	}

	isCandidate := application.CandidateID == user.ID
	if !isCandidate && application.Job.RecruiterID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view feedback of this application",
		})
		return
	}

	result := db.Preload("Responses").Where("application_id = ?", application.ID)
	if isCandidate {
		result = result.Where("is_visible_to_candidate = ?", true)
	}

	feedback := []model.ApplicationFeedback{}
	if err := result.Order("created_at").Find(&feedback).Error; err != nil {
		controller.RespondFindError(c, "Feedback", err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// EditFeedbackHandler overwrites the given fields of feedback. The result
// must still be personalized.
// @Summary Edit feedback
// @Description Only the recruiter who gave the feedback has access to this endpoint
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of feedback"
// @Param feedback body model.EditableFeedbackInfo true "Fields to overwrite"
// @Success 200 {object} model.ApplicationFeedback
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or feedback not personalized"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the author of the feedback"
// @Failure 404 {object} utilities.ErrorResponse "Feedback not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback/{id} [patch]
func (fc *FeedbackController) EditFeedbackHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := fc.DB.WithContext(c.Request.Context())
	feedback := model.ApplicationFeedback{}
	if err := db.First(&feedback, id).Error; err != nil {
		controller.RespondFindError(c, "Feedback", err)
		return
	}

	if feedback.ProvidedByID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this feedback",
		})
		return
	}

	if err := controller.DecodeStrict(c, &feedback.EditableFeedbackInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Save(&feedback).Error; err != nil {
		controller.RespondSaveError(c, "update feedback", err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// CreateResponseHandler lets the candidate reply to feedback on their application.
// @Summary Respond to feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of feedback"
// @Param response body CreateResponse true "Response"
// @Success 201 {object} model.FeedbackResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the candidate of the application"
// @Failure 404 {object} utilities.ErrorResponse "Feedback not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback/{id}/responses [post]
func (fc *FeedbackController) CreateResponseHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := fc.DB.WithContext(c.Request.Context())
	feedback := model.ApplicationFeedback{}
	if err := db.Preload("Application").First(&feedback, id).Error; err != nil {
		controller.RespondFindError(c, "Feedback", err)
		return
	}

	if feedback.Application.CandidateID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only the candidate of this application can respond",
		})
		return
	}
	if !feedback.IsVisibleToCandidate {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Feedback not found"})
		return
	}

	body := CreateResponse{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	response := model.FeedbackResponse{
		FeedbackID:   feedback.ID,
		ResponseText: body.ResponseText,
		IsPublic:     body.IsPublic,
	}
	if err := db.Omit(clause.Associations).Create(&response).Error; err != nil {
		controller.RespondSaveError(c, "create response", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetTemplatesHandler lists active feedback templates.
// @Summary Get feedback templates
// @Tags Feedback
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param feedback_type query string false "Only templates of this feedback type"
// @Success 200 {array} model.FeedbackTemplate
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback-templates [get]
func (fc *FeedbackController) GetTemplatesHandler(c *gin.Context) {
	result := fc.DB.WithContext(c.Request.Context()).
		Scopes(controller.Paginate(c)).
		Where("is_active = ?", true)
	if feedbackType := c.Query("feedback_type"); feedbackType != "" {
		result = result.Where("feedback_type = ?", feedbackType)
	}

	templates := []model.FeedbackTemplate{}
	if err := result.Order("name").Find(&templates).Error; err != nil {
		controller.RespondFindError(c, "Feedback templates", err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// CreateTemplateHandler stores a new active feedback template.
// @Summary Create feedback template
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param template body EditableTemplate true "Template"
// @Success 201 {object} model.FeedbackTemplate
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback-templates [post]
func (fc *FeedbackController) CreateTemplateHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := EditableTemplate{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	template := model.NewFeedbackTemplate()
	template.Name = body.Name
	template.FeedbackType = body.FeedbackType
	template.StrengthsTemplate = body.StrengthsTemplate
	template.ImprovementTemplate = body.ImprovementTemplate
	template.CommentsTemplate = body.CommentsTemplate
	template.CreatedByID = user.ID

	if err := fc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(template).Error; err != nil {
		controller.RespondSaveError(c, "create feedback template", err)
		return
	}

	c.JSON(http.StatusCreated, template)
}
