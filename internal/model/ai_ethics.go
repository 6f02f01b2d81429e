package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AI decision types
const (
	DecisionScreening      = "screening"
	DecisionMatching       = "matching"
	DecisionRanking        = "ranking"
	DecisionRecommendation = "recommendation"
)

// Bias audit types
const (
	AuditGender        = "gender"
	AuditRace          = "race"
	AuditAge           = "age"
	AuditLocation      = "location"
	AuditEducation     = "education"
	AuditComprehensive = "comprehensive"
)

// Bias severities
const (
	SeverityNone     = "none"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Data access types
const (
	AccessView       = "view"
	AccessExport     = "export"
	AccessDelete     = "delete"
	AccessAnonymize  = "anonymize"
	AccessAITraining = "ai_training"
)

// AIDecisionLog records one automated decision so a human can audit it.
// Rows are appended; only the human review fields change afterwards.
type AIDecisionLog struct {
	ID              uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID   *uint                       `gorm:"index" json:"application_id"`
	Application     *Application                `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	DecisionType    string                      `gorm:"type:varchar(20);not null" json:"decision_type" validate:"oneof=screening matching ranking recommendation"`
	ModelVersion    string                      `gorm:"type:varchar(50);not null" json:"model_version" validate:"required,max=50"`
	InputData       datatypes.JSON              `json:"input_data"`
	OutputData      datatypes.JSON              `json:"output_data"`
	ConfidenceScore float64                     `json:"confidence_score" validate:"gte=0,lte=1"`
	Explanation     string                      `gorm:"type:text" json:"explanation"`
	FeaturesUsed    datatypes.JSONSlice[string] `json:"features_used"`
	HumanReviewed   bool                        `json:"human_reviewed"`
	ReviewedByID    *uuid.UUID                  `gorm:"type:uuid;index" json:"reviewed_by_id"`
	ReviewedBy      *User                       `gorm:"foreignKey:ReviewedByID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	HumanOverride   bool                        `json:"human_override"`
	OverrideReason  string                      `gorm:"type:text" json:"override_reason"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps "AI" together; the default naming gives a_idecision_logs.
func (AIDecisionLog) TableName() string { return "ai_decision_logs" }

func (d *AIDecisionLog) String() string {
	return fmt.Sprintf("AI %s - %s", d.DecisionType, d.CreatedAt.Format(time.RFC3339))
}

// RecordReview marks the decision as reviewed by reviewer. A non-empty reason
// means the reviewer overrode the automated outcome.
func (d *AIDecisionLog) RecordReview(reviewer uuid.UUID, override bool, reason string) error {
	if override && reason == "" {
		return fmt.Errorf("%w: override_reason is required when overriding a decision", ErrValidation)
	}
	d.HumanReviewed = true
	d.ReviewedByID = &reviewer
	d.HumanOverride = override
	d.OverrideReason = reason
	return nil
}

// BeforeSave validates the record.
func (d *AIDecisionLog) BeforeSave(tx *gorm.DB) error {
	if d.FeaturesUsed == nil {
		d.FeaturesUsed = datatypes.JSONSlice[string]{}
	}
	return validateStruct(d)
}

// BiasAuditLog is the result of an audit of an AI model for biased outcomes
type BiasAuditLog struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AuditType         string            `gorm:"type:varchar(20);not null" json:"audit_type" validate:"oneof=gender race age location education comprehensive"`
	AuditDate         time.Time         `gorm:"type:date;not null;index" json:"audit_date"`
	ModelVersion      string            `gorm:"type:varchar(50);not null" json:"model_version" validate:"required,max=50"`
	SampleSize        uint              `json:"sample_size"`
	Findings          string            `gorm:"type:text;not null" json:"findings" validate:"required"`
	BiasDetected      bool              `json:"bias_detected"`
	BiasSeverity      string            `gorm:"type:varchar(20);default:none" json:"bias_severity" validate:"oneof=none low medium high critical"`
	CorrectiveActions string            `gorm:"type:text" json:"corrective_actions"`
	Metrics           datatypes.JSONMap `json:"metrics"`
	AuditedByID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"audited_by_id"`
	AuditedBy         *User             `gorm:"foreignKey:AuditedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *BiasAuditLog) String() string {
	return fmt.Sprintf("%s - %s", b.AuditType, b.AuditDate.Format(time.DateOnly))
}

// BeforeSave fills the default severity and validates the record.
func (b *BiasAuditLog) BeforeSave(tx *gorm.DB) error {
	if b.BiasSeverity == "" {
		b.BiasSeverity = SeverityNone
	}
	if b.Metrics == nil {
		b.Metrics = datatypes.JSONMap{}
	}
	return validateStruct(b)
}

// EthicalAIGuideline is a documented principle the platform follows
type EthicalAIGuideline struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title                 string    `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description           string    `gorm:"type:text;not null" json:"description" validate:"required"`
	Principle             string    `gorm:"type:varchar(100);not null" json:"principle" validate:"required,max=100"`
	ImplementationDetails string    `gorm:"type:text" json:"implementation_details"`
	Version               string    `gorm:"type:varchar(20);not null" json:"version" validate:"required,max=20"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewEthicalAIGuideline returns an active guideline.
func NewEthicalAIGuideline() *EthicalAIGuideline {
	return &EthicalAIGuideline{IsActive: true}
}

func (EthicalAIGuideline) TableName() string { return "ethical_ai_guidelines" }

func (g *EthicalAIGuideline) String() string {
	return fmt.Sprintf("%s (v%s)", g.Title, g.Version)
}

// BeforeSave validates the record.
func (g *EthicalAIGuideline) BeforeSave(tx *gorm.DB) error {
	return validateStruct(g)
}

// DataPrivacyLog records an access to personal data of a user
type DataPrivacyLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	AccessedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"accessed_by_id"`
	AccessedBy   *User     `gorm:"foreignKey:AccessedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	AccessType   string    `gorm:"type:varchar(20);not null" json:"access_type" validate:"oneof=view export delete anonymize ai_training"`
	DataType     string    `gorm:"type:varchar(100);not null" json:"data_type" validate:"required,max=100"`
	Purpose      string    `gorm:"type:text;not null" json:"purpose" validate:"required"`
	ConsentGiven bool      `json:"consent_given"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// String needs User and AccessedBy loaded to print usernames.
func (l *DataPrivacyLog) String() string {
	if l.User == nil || l.AccessedBy == nil {
		return fmt.Sprintf("%s - %s by %s", l.AccessType, l.UserID, l.AccessedByID)
	}
	return fmt.Sprintf("%s - %s by %s", l.AccessType, l.User.Username, l.AccessedBy.Username)
}

// BeforeSave validates the record.
func (l *DataPrivacyLog) BeforeSave(tx *gorm.DB) error {
	return validateStruct(l)
}
