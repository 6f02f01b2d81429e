package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job posting status
const (
	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusPaused = "paused"
	JobStatusClosed = "closed"
)

// Remote types
const (
	RemoteTypeRemote = "remote"
	RemoteTypeHybrid = "hybrid"
	RemoteTypeOnsite = "onsite"
)

// Employment types
const (
	EmploymentFullTime   = "full_time"
	EmploymentPartTime   = "part_time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

// CustomQuestion is an extra question a candidate answers when applying
type CustomQuestion struct {
	Question string `json:"question"`
	Required bool   `json:"required"`
}

// EditableJobPostingInfo is part of job posting that can be edited
type EditableJobPostingInfo struct {
	Title                   string                             `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description             string                             `gorm:"type:text" json:"description"`
	Responsibilities        string                             `gorm:"type:text" json:"responsibilities"`
	Requirements            string                             `gorm:"type:text" json:"requirements"`
	PreferredQualifications string                             `gorm:"type:text" json:"preferred_qualifications"`
	Location                string                             `gorm:"type:varchar(200)" json:"location" validate:"max=200"`
	RemoteType              string                             `gorm:"type:varchar(20);default:onsite" json:"remote_type" validate:"oneof=remote hybrid onsite"`
	EmploymentType          string                             `gorm:"type:varchar(20);default:full_time" json:"employment_type" validate:"oneof=full_time part_time contract internship"`
	SalaryMin               *float64                           `gorm:"type:decimal(10,2)" json:"salary_min"`
	SalaryMax               *float64                           `gorm:"type:decimal(10,2)" json:"salary_max"`
	SalaryCurrency          string                             `gorm:"type:varchar(3);default:USD" json:"salary_currency" validate:"max=3"`
	Benefits                string                             `gorm:"type:text" json:"benefits"`
	SkillsRequired          datatypes.JSONSlice[string]         `json:"skills_required"`
	SkillsPreferred         datatypes.JSONSlice[string]         `json:"skills_preferred"`
	ExperienceMin           uint                               `gorm:"default:0" json:"experience_min"`
	ExperienceMax           *uint                              `json:"experience_max"`
	Status                  string                             `gorm:"type:varchar(20);default:draft;index" json:"status" validate:"oneof=draft active paused closed"`
	ApplicationDeadline     *time.Time                         `gorm:"type:date" json:"application_deadline,omitempty"`
	RequiresCoverLetter     bool                               `json:"requires_cover_letter"`
	CustomQuestions         datatypes.JSONSlice[CustomQuestion] `json:"custom_questions"`
}

// JobPosting is gorm model for store job posting data in DB
type JobPosting struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	Company     *Company  `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   *User     `gorm:"foreignKey:RecruiterID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditableJobPostingInfo
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// NewJobPosting returns a job posting carrying the column defaults.
func NewJobPosting() *JobPosting {
	return &JobPosting{
		EditableJobPostingInfo: EditableJobPostingInfo{
			RemoteType:          RemoteTypeOnsite,
			EmploymentType:      EmploymentFullTime,
			SalaryCurrency:      "USD",
			Status:              JobStatusDraft,
			RequiresCoverLetter: true,
			SkillsRequired:      datatypes.JSONSlice[string]{},
			SkillsPreferred:     datatypes.JSONSlice[string]{},
			CustomQuestions:     datatypes.JSONSlice[CustomQuestion]{},
		},
	}
}

// String needs the Company relation loaded to print the company name.
func (j *JobPosting) String() string {
	if j.Company == nil {
		return j.Title
	}
	return fmt.Sprintf("%s at %s", j.Title, j.Company.Name)
}

// IsOpen reports whether candidates can apply to the posting at the given time.
func (j *JobPosting) IsOpen(now time.Time) bool {
	if j.Status != JobStatusActive {
		return false
	}
	if j.ApplicationDeadline == nil {
		return true
	}
	deadline := j.ApplicationDeadline.AddDate(0, 0, 1)
	return now.Before(deadline)
}

// Validate checks the enumerations of the posting.
func (j *JobPosting) Validate() error {
	return validateStruct(j)
}

// BeforeSave fills enum defaults and validates the record.
func (j *JobPosting) BeforeSave(tx *gorm.DB) error {
	if j.RemoteType == "" {
		j.RemoteType = RemoteTypeOnsite
	}
	if j.EmploymentType == "" {
		j.EmploymentType = EmploymentFullTime
	}
	if j.Status == "" {
		j.Status = JobStatusDraft
	}
	if j.SalaryCurrency == "" {
		j.SalaryCurrency = "USD"
	}
	return j.Validate()
}

// JobPostingResponse is the response struct for job posting with user application status
type JobPostingResponse struct {
	ID          uint      `json:"id"`
	CompanyID   uint      `json:"company_id"`
	Company     *Company  `json:"company,omitempty"`
	RecruiterID uuid.UUID `json:"recruiter_id"`
	EditableJobPostingInfo
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	ApplicationCount int       `json:"application_count"`
	UserApplied      bool      `json:"user_applied"`
}

// ToJobPostingResponse converts JobPosting to JobPostingResponse.
// Applications must be preloaded for the count and applied flag to be accurate.
func (j *JobPosting) ToJobPostingResponse(user User) JobPostingResponse {
	resp := JobPostingResponse{
		ID:                     j.ID,
		CompanyID:              j.CompanyID,
		Company:                j.Company,
		RecruiterID:            j.RecruiterID,
		EditableJobPostingInfo: j.EditableJobPostingInfo,
		CreatedAt:              j.CreatedAt,
		UpdatedAt:              j.UpdatedAt,
		ApplicationCount:       len(j.Applications),
	}

	if user.IsCandidate() {
		for _, application := range j.Applications {
			if application.CandidateID == user.ID {
				resp.UserApplied = true
				break
			}
		}
	}
	return resp
}
