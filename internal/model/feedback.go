package model

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback types
const (
	FeedbackTypeScreening = "screening"
	FeedbackTypeInterview = "interview"
	FeedbackTypeTechnical = "technical"
	FeedbackTypeFinal     = "final"
)

// Minimum lengths of the personalized feedback fields, counted in characters.
const (
	MinStrengthsLength           = 50
	MinAreasForImprovementLength = 50
	MinDetailedCommentsLength    = 100
)

// ErrFeedbackNotPersonalized is returned when feedback text is too short to
// count as personal feedback. It wraps ErrValidation.
var ErrFeedbackNotPersonalized = fmt.Errorf("%w: feedback is not personalized", ErrValidation)

// EditableFeedbackInfo is the part of feedback written by the recruiter
type EditableFeedbackInfo struct {
	FeedbackType         string `gorm:"type:varchar(20);not null" json:"feedback_type" validate:"oneof=screening interview technical final"`
	Strengths            string `gorm:"type:text;not null" json:"strengths"`
	AreasForImprovement  string `gorm:"type:text;not null" json:"areas_for_improvement"`
	DetailedComments     string `gorm:"type:text;not null" json:"detailed_comments"`
	Rating               *uint  `json:"rating"`
	NextSteps            string `gorm:"type:text" json:"next_steps"`
	IsVisibleToCandidate bool   `json:"is_visible_to_candidate"`
}

// ApplicationFeedback is feedback on an application. Generic one-liners are
// refused: every write must pass CheckPersonalization.
type ApplicationFeedback struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID uint         `gorm:"not null;index" json:"application_id"`
	Application   *Application `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ProvidedByID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"provided_by_id"`
	ProvidedBy    *User        `gorm:"foreignKey:ProvidedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditableFeedbackInfo
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Responses []FeedbackResponse `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

// NewApplicationFeedback returns feedback visible to the candidate by default.
func NewApplicationFeedback() *ApplicationFeedback {
	return &ApplicationFeedback{
		EditableFeedbackInfo: EditableFeedbackInfo{IsVisibleToCandidate: true},
	}
}

func (f *ApplicationFeedback) String() string {
	if f.Application == nil {
		return fmt.Sprintf("Feedback for application %d - %s", f.ApplicationID, f.FeedbackType)
	}
	return fmt.Sprintf("Feedback for %s - %s", f.Application, f.FeedbackType)
}

// CheckPersonalization enforces the minimum lengths of strengths,
// areas for improvement and detailed comments, in that order.
func (info *EditableFeedbackInfo) CheckPersonalization() error {
	if utf8.RuneCountInString(info.Strengths) < MinStrengthsLength {
		return fmt.Errorf("%w: strengths must be detailed (minimum %d characters)", ErrFeedbackNotPersonalized, MinStrengthsLength)
	}
	if utf8.RuneCountInString(info.AreasForImprovement) < MinAreasForImprovementLength {
		return fmt.Errorf("%w: areas for improvement must be detailed (minimum %d characters)", ErrFeedbackNotPersonalized, MinAreasForImprovementLength)
	}
	if utf8.RuneCountInString(info.DetailedComments) < MinDetailedCommentsLength {
		return fmt.Errorf("%w: detailed comments must be comprehensive (minimum %d characters)", ErrFeedbackNotPersonalized, MinDetailedCommentsLength)
	}
	return nil
}

// Validate checks personalization first, then the feedback type.
func (f *ApplicationFeedback) Validate() error {
	if err := f.CheckPersonalization(); err != nil {
		return err
	}
	return validateStruct(&f.EditableFeedbackInfo)
}

// BeforeSave rejects the write when Validate fails.
func (f *ApplicationFeedback) BeforeSave(tx *gorm.DB) error {
	return f.Validate()
}

// IsPersonalizationError reports whether err comes from the minimum length rule.
func IsPersonalizationError(err error) bool {
	return errors.Is(err, ErrFeedbackNotPersonalized)
}

// FeedbackResponse is a candidate reply to feedback
type FeedbackResponse struct {
	ID           uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	FeedbackID   uint                 `gorm:"not null;index" json:"feedback_id"`
	Feedback     *ApplicationFeedback `gorm:"foreignKey:FeedbackID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ResponseText string               `gorm:"type:text;not null" json:"response_text" validate:"required"`
	IsPublic     bool                 `json:"is_public"`
	CreatedAt    time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *FeedbackResponse) String() string {
	return fmt.Sprintf("Response to feedback %d", r.FeedbackID)
}

// BeforeSave validates the record.
func (r *FeedbackResponse) BeforeSave(tx *gorm.DB) error {
	if r.ResponseText == "" {
		return fmt.Errorf("%w: response_text is required", ErrValidation)
	}
	return nil
}

// FeedbackTemplate is a starting point recruiters copy into feedback.
// Feedback written from a template still has to pass CheckPersonalization.
type FeedbackTemplate struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string    `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	FeedbackType        string    `gorm:"type:varchar(20);not null" json:"feedback_type" validate:"oneof=screening interview technical final"`
	StrengthsTemplate   string    `gorm:"type:text" json:"strengths_template"`
	ImprovementTemplate string    `gorm:"type:text" json:"improvement_template"`
	CommentsTemplate    string    `gorm:"type:text" json:"comments_template"`
	CreatedByID         uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy           *User     `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewFeedbackTemplate returns an active template.
func NewFeedbackTemplate() *FeedbackTemplate {
	return &FeedbackTemplate{IsActive: true}
}

func (t *FeedbackTemplate) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.FeedbackType)
}

// BeforeSave validates the record.
func (t *FeedbackTemplate) BeforeSave(tx *gorm.DB) error {
	return validateStruct(t)
}
