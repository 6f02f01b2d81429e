// Package aiethics exposes the audit trail of automated decisions, bias
// audits, ethical guidelines and personal data access.
package aiethics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// AIEthicsController handles the AI ethics endpoints
type AIEthicsController struct {
	DB *database.DBinstanceStruct
}

// NewAIEthicsController creates a new instance of AIEthicsController
func NewAIEthicsController(db *database.DBinstanceStruct) *AIEthicsController {
	return &AIEthicsController{
		DB: db,
	}
}

// CreateDecision is the request body of CreateDecisionHandler
type CreateDecision struct {
	ApplicationID   *uint          `json:"application_id"`
	DecisionType    string         `json:"decision_type"`
	ModelVersion    string         `json:"model_version"`
	InputData       datatypes.JSON `json:"input_data" swaggertype:"object"`
	OutputData      datatypes.JSON `json:"output_data" swaggertype:"object"`
	ConfidenceScore float64        `json:"confidence_score"`
	Explanation     string         `json:"explanation"`
	FeaturesUsed    []string       `json:"features_used"`
}

// ReviewDecision is the request body of ReviewDecisionHandler
type ReviewDecision struct {
	HumanOverride  bool   `json:"human_override"`
	OverrideReason string `json:"override_reason"`
}

// CreateBiasAudit is the request body of CreateBiasAuditHandler
type CreateBiasAudit struct {
	AuditType string `json:"audit_type"`
	// AuditDate is YYYY-MM-DD, today when empty
	AuditDate         string                 `json:"audit_date"`
	ModelVersion      string                 `json:"model_version"`
	SampleSize        uint                   `json:"sample_size"`
	Findings          string                 `json:"findings"`
	BiasDetected      bool                   `json:"bias_detected"`
	BiasSeverity      string                 `json:"bias_severity"`
	CorrectiveActions string                 `json:"corrective_actions"`
	Metrics           map[string]interface{} `json:"metrics"`
}

// CreateGuideline is the request body of CreateGuidelineHandler
type CreateGuideline struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	Principle             string `json:"principle"`
	ImplementationDetails string `json:"implementation_details"`
	Version               string `json:"version"`
	IsActive              *bool  `json:"is_active"`
}

// CreatePrivacyLog is the request body of CreatePrivacyLogHandler
type CreatePrivacyLog struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessType   string    `json:"access_type"`
	DataType     string    `json:"data_type"`
	Purpose      string    `json:"purpose"`
	ConsentGiven bool      `json:"consent_given"`
}

// ownsApplication reports whether recruiter posted the job of application id.
func ownsApplication(db *gorm.DB, recruiter model.User, id uint) (bool, error) {
	var count int64
	err := db.Model(&model.Application{}).
		Joins("JOIN job_postings ON job_postings.id = applications.job_id").
		Where("applications.id = ? AND job_postings.recruiter_id = ?", id, recruiter.ID).
		Count(&count).Error
	return count > 0, err
}

// GetDecisionsHandler lists logged AI decisions, newest first. Recruiters
// only see decisions about applications to their own postings.
// @Summary List AI decisions
// @Tags AI Ethics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param decision_type query string false "Only decisions of this type" Enums(screening, matching, ranking, recommendation)
// @Param application_id query integer false "Only decisions about this application"
// @Param human_reviewed query boolean false "Filter on review state"
// @Success 200 {array} model.AIDecisionLog
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin or recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ai-decisions [get]
func (ac *AIEthicsController) GetDecisionsHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := ac.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	if !user.IsAdmin() {
		result = result.
			Joins("JOIN applications ON applications.id = ai_decision_logs.application_id").
			Joins("JOIN job_postings ON job_postings.id = applications.job_id").
			Where("job_postings.recruiter_id = ?", user.ID)
	}
	if decisionType := c.Query("decision_type"); decisionType != "" {
		result = result.Where("ai_decision_logs.decision_type = ?", decisionType)
	}
	if appID := c.Query("application_id"); appID != "" {
		result = result.Where("ai_decision_logs.application_id = ?", appID)
	}
	if reviewed, err := strconv.ParseBool(c.Query("human_reviewed")); err == nil {
		result = result.Where("ai_decision_logs.human_reviewed = ?", reviewed)
	}

	decisions := []model.AIDecisionLog{}
	if err := result.Order("ai_decision_logs.created_at DESC").Find(&decisions).Error; err != nil {
		controller.RespondFindError(c, "AI decisions", err)
		return
	}

	c.JSON(http.StatusOK, decisions)
}

// CreateDecisionHandler appends an AI decision to the log.
// @Summary Log an AI decision
// @Tags AI Ethics
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param decision body CreateDecision true "Decision"
// @Success 201 {object} model.AIDecisionLog
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ai-decisions [post]
func (ac *AIEthicsController) CreateDecisionHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := CreateDecision{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	if !user.IsAdmin() {
		if body.ApplicationID == nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "application_id is required"})
			return
		}
		owns, err := ownsApplication(db, user, *body.ApplicationID)
		if err != nil {
			controller.RespondFindError(c, "Application", err)
			return
		}
		if !owns {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You can only log decisions about applications to your job postings",
			})
			return
		}
	}

	decision := model.AIDecisionLog{
		ApplicationID:   body.ApplicationID,
		DecisionType:    body.DecisionType,
		ModelVersion:    body.ModelVersion,
		InputData:       body.InputData,
		OutputData:      body.OutputData,
		ConfidenceScore: body.ConfidenceScore,
		Explanation:     body.Explanation,
		FeaturesUsed:    body.FeaturesUsed,
	}
	if err := db.Omit(clause.Associations).Create(&decision).Error; err != nil {
		controller.RespondSaveError(c, "log decision", err)
		return
	}

	c.JSON(http.StatusCreated, decision)
}

// ReviewDecisionHandler records the human review of a decision. Only the
// review fields are written; a decision is reviewed once.
// @Summary Review an AI decision
// @Tags AI Ethics
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of decision"
// @Param review body ReviewDecision true "Review"
// @Success 200 {object} model.AIDecisionLog
// @Failure 400 {object} utilities.ErrorResponse "Invalid body, override without reason or already reviewed"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Decision about another recruiter's application"
// @Failure 404 {object} utilities.ErrorResponse "Decision not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ai-decisions/{id}/review [post]
func (ac *AIEthicsController) ReviewDecisionHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	decision := model.AIDecisionLog{}
	if err := db.First(&decision, id).Error; err != nil {
		controller.RespondFindError(c, "Decision", err)
		return
	}

	if !user.IsAdmin() {
		owns := false
		if decision.ApplicationID != nil {
			var err error
			if owns, err = ownsApplication(db, user, *decision.ApplicationID); err != nil {
				controller.RespondFindError(c, "Application", err)
				return
			}
		}
		if !owns {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You can only review decisions about applications to your job postings",
			})
			return
		}
	}

	if decision.HumanReviewed {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Decision has already been reviewed"})
		return
	}

	body := ReviewDecision{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	if err := decision.RecordReview(user.ID, body.HumanOverride, body.OverrideReason); err != nil {
		controller.RespondSaveError(c, "review decision", err)
		return
	}

	result := db.Model(&decision).
		Where("human_reviewed = ?", false).
		Select("human_reviewed", "reviewed_by_id", "human_override", "override_reason").
		Updates(&decision)
	if result.Error != nil {
		controller.RespondSaveError(c, "review decision", result.Error)
		return
	}
	// A concurrent review got there first.
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Decision has already been reviewed"})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// GetBiasAuditsHandler lists bias audits, latest audit date first.
// @Summary List bias audits
// @Tags AI Ethics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param audit_type query string false "Only audits of this type"
// @Param bias_detected query boolean false "Filter on detected bias"
// @Param bias_severity query string false "Only audits of this severity"
// @Success 200 {array} model.BiasAuditLog
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /bias-audits [get]
func (ac *AIEthicsController) GetBiasAuditsHandler(c *gin.Context) {
	result := ac.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	if auditType := c.Query("audit_type"); auditType != "" {
		result = result.Where("audit_type = ?", auditType)
	}
	if detected, err := strconv.ParseBool(c.Query("bias_detected")); err == nil {
		result = result.Where("bias_detected = ?", detected)
	}
	if severity := c.Query("bias_severity"); severity != "" {
		result = result.Where("bias_severity = ?", severity)
	}

	audits := []model.BiasAuditLog{}
	if err := result.Order("audit_date DESC").Order("id DESC").Find(&audits).Error; err != nil {
		controller.RespondFindError(c, "Bias audits", err)
		return
	}

	c.JSON(http.StatusOK, audits)
}

// CreateBiasAuditHandler records a bias audit performed by the authenticated admin.
// @Summary Record a bias audit
// @Tags AI Ethics
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param audit body CreateBiasAudit true "Audit"
// @Success 201 {object} model.BiasAuditLog
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /bias-audits [post]
func (ac *AIEthicsController) CreateBiasAuditHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := CreateBiasAudit{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	auditDate := time.Now().UTC().Truncate(24 * time.Hour)
	if body.AuditDate != "" {
		parsed, err := time.Parse(time.DateOnly, body.AuditDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "audit_date must be formatted as YYYY-MM-DD"})
			return
		}
		auditDate = parsed
	}

	audit := model.BiasAuditLog{
		AuditType:         body.AuditType,
		AuditDate:         auditDate,
		ModelVersion:      body.ModelVersion,
		SampleSize:        body.SampleSize,
		Findings:          body.Findings,
		BiasDetected:      body.BiasDetected,
		BiasSeverity:      body.BiasSeverity,
		CorrectiveActions: body.CorrectiveActions,
		Metrics:           body.Metrics,
		AuditedByID:       user.ID,
	}
	if err := ac.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&audit).Error; err != nil {
		controller.RespondSaveError(c, "record bias audit", err)
		return
	}

	c.JSON(http.StatusCreated, audit)
}

// GetGuidelinesHandler lists ethical AI guidelines ordered by principle and
// title. Only admins see inactive guidelines.
// @Summary List ethical AI guidelines
// @Tags AI Ethics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param principle query string false "Only guidelines of this principle"
// @Success 200 {array} model.EthicalAIGuideline
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ethical-guidelines [get]
func (ac *AIEthicsController) GetGuidelinesHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := ac.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	if !user.IsAdmin() {
		result = result.Where("is_active = ?", true)
	}
	if principle := c.Query("principle"); principle != "" {
		result = result.Where("principle = ?", principle)
	}

	guidelines := []model.EthicalAIGuideline{}
	if err := result.Order("principle").Order("title").Find(&guidelines).Error; err != nil {
		controller.RespondFindError(c, "Guidelines", err)
		return
	}

	c.JSON(http.StatusOK, guidelines)
}

// CreateGuidelineHandler publishes an ethical AI guideline.
// @Summary Create an ethical AI guideline
// @Tags AI Ethics
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param guideline body CreateGuideline true "Guideline"
// @Success 201 {object} model.EthicalAIGuideline
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ethical-guidelines [post]
func (ac *AIEthicsController) CreateGuidelineHandler(c *gin.Context) {
	body := CreateGuideline{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	guideline := model.NewEthicalAIGuideline()
	guideline.Title = body.Title
	guideline.Description = body.Description
	guideline.Principle = body.Principle
	guideline.ImplementationDetails = body.ImplementationDetails
	guideline.Version = body.Version
	if body.IsActive != nil {
		guideline.IsActive = *body.IsActive
	}

	if err := ac.DB.WithContext(c.Request.Context()).Create(guideline).Error; err != nil {
		controller.RespondSaveError(c, "create guideline", err)
		return
	}

	c.JSON(http.StatusCreated, guideline)
}

// GetPrivacyLogsHandler lists personal data accesses, newest first.
// @Summary List data privacy logs
// @Tags AI Ethics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param user_id query string false "Only accesses to the data of this user"
// @Param access_type query string false "Only accesses of this type"
// @Success 200 {array} model.DataPrivacyLog
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /privacy-logs [get]
func (ac *AIEthicsController) GetPrivacyLogsHandler(c *gin.Context) {
	result := ac.DB.WithContext(c.Request.Context())
	if userID := c.Query("user_id"); userID != "" {
		result = result.Where("user_id = ?", userID)
	}
	ac.listPrivacyLogs(c, result)
}

// GetMyPrivacyLogsHandler lists the accesses to the authenticated user's data.
// @Summary List accesses to my data
// @Tags AI Ethics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param access_type query string false "Only accesses of this type"
// @Success 200 {array} model.DataPrivacyLog
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /privacy-logs/mine [get]
func (ac *AIEthicsController) GetMyPrivacyLogsHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	ac.listPrivacyLogs(c, ac.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID))
}

func (ac *AIEthicsController) listPrivacyLogs(c *gin.Context, result *gorm.DB) {
	if accessType := c.Query("access_type"); accessType != "" {
		result = result.Where("access_type = ?", accessType)
	}

	logs := []model.DataPrivacyLog{}
	if err := result.Scopes(controller.Paginate(c)).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		controller.RespondFindError(c, "Privacy logs", err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// CreatePrivacyLogHandler records that the authenticated admin accessed
// personal data of a user.
// @Summary Log a personal data access
// @Tags AI Ethics
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param log body CreatePrivacyLog true "Access"
// @Success 201 {object} model.DataPrivacyLog
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, field value or unknown user"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /privacy-logs [post]
func (ac *AIEthicsController) CreatePrivacyLogHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := CreatePrivacyLog{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	entry := model.DataPrivacyLog{
		UserID:       body.UserID,
		AccessedByID: user.ID,
		AccessType:   body.AccessType,
		DataType:     body.DataType,
		Purpose:      body.Purpose,
		ConsentGiven: body.ConsentGiven,
	}
	if err := ac.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&entry).Error; err != nil {
		controller.RespondSaveError(c, "log data access", err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
