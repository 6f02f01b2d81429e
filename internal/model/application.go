package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application status
const (
	// ApplicationStatusDraft indicates that the candidate has not sent the application yet
	ApplicationStatusDraft = "draft"
	// ApplicationStatusSubmitted indicates that the application was sent to the recruiter
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusScreening   = "screening"
	ApplicationStatusInterview   = "interviewing"
	ApplicationStatusOffer       = "offer"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
	// ApplicationStatusWithdrawn indicates that the candidate pulled the application back
	ApplicationStatusWithdrawn = "withdrawn"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []string{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusScreening,
	ApplicationStatusInterview,
	ApplicationStatusOffer,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// Application represents a job application record.
// A candidate can apply to a job posting only once.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// CandidateID references User.ID (uuid)
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job;<-:create" json:"candidate_id"`
	Candidate   *User     `gorm:"foreignKey:CandidateID;references:ID;constraint:OnDelete:CASCADE" json:"candidate,omitempty"`

	// JobID references JobPosting.ID
	JobID uint        `gorm:"not null;uniqueIndex:idx_application_candidate_job;index;<-:create" json:"job_id"`
	Job   *JobPosting `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job,omitempty"`

	Status              string                      `gorm:"type:varchar(20);default:draft;index" json:"status" validate:"oneof=draft submitted under_review screening interviewing offer accepted rejected withdrawn"`
	CoverLetter         string                      `gorm:"type:text" json:"cover_letter"`
	Resume              string                      `gorm:"type:text" json:"resume"`
	AdditionalDocuments datatypes.JSONSlice[string] `json:"additional_documents"`
	SubmittedAt         *time.Time                  `json:"submitted_at"`
	LastStatusChange    time.Time                   `gorm:"autoUpdateTime" json:"last_status_change"`
	AIMatchScore        *float64                    `json:"ai_match_score"`
	AIMatchExplanation  string                      `gorm:"type:text" json:"ai_match_explanation"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	Feedback    []ApplicationFeedback `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"feedback,omitempty"`
	AIDecisions []AIDecisionLog       `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

// NewApplication returns a draft application of candidateID for jobID.
func NewApplication(candidateID uuid.UUID, jobID uint) *Application {
	return &Application{
		CandidateID:         candidateID,
		JobID:               jobID,
		Status:              ApplicationStatusDraft,
		AdditionalDocuments: datatypes.JSONSlice[string]{},
	}
}

// String needs the Candidate and Job relations loaded to print names.
func (a *Application) String() string {
	if a.Candidate == nil || a.Job == nil {
		return fmt.Sprintf("Application %d (%s)", a.ID, a.Status)
	}
	return fmt.Sprintf("%s - %s (%s)", a.Candidate.Username, a.Job.Title, a.Status)
}

// SetStatus moves the application to newStatus. Any valid status may follow
// any other; submitted_at is stamped the first time the application is submitted.
func (a *Application) SetStatus(newStatus string, now time.Time) error {
	if !isApplicationStatus(newStatus) {
		return fmt.Errorf("%w: invalid status: %s", ErrValidation, newStatus)
	}

	a.Status = newStatus
	if newStatus == ApplicationStatusSubmitted && a.SubmittedAt == nil {
		a.SubmittedAt = &now
	}
	return nil
}

func isApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Validate checks the status of the application.
func (a *Application) Validate() error {
	if !isApplicationStatus(a.Status) {
		return fmt.Errorf("%w: invalid status: %s", ErrValidation, a.Status)
	}
	return nil
}

// BeforeSave fills the default status and validates the record.
func (a *Application) BeforeSave(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = ApplicationStatusDraft
	}
	return a.Validate()
}
