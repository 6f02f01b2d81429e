package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Remote preferences of a candidate
const (
	RemotePreferenceRemote   = "remote"
	RemotePreferenceHybrid   = "hybrid"
	RemotePreferenceOnsite   = "onsite"
	RemotePreferenceFlexible = "flexible"
)

// LanguageSkill is a spoken language and how well the candidate speaks it
type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Education is a degree entry of a candidate profile
type Education struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   int    `json:"year,omitempty"`
}

// EditableCandidateInfo is part of candidate profile that the candidate can edit
type EditableCandidateInfo struct {
	Resume               string                            `gorm:"type:text" json:"resume"`
	CoverLetter          string                            `gorm:"type:text" json:"cover_letter"`
	YearsOfExperience    uint                              `gorm:"default:0" json:"years_of_experience"`
	CurrentTitle         string                            `gorm:"type:varchar(200)" json:"current_title" validate:"max=200"`
	CurrentCompany       string                            `gorm:"type:varchar(200)" json:"current_company" validate:"max=200"`
	SalaryExpectationMin *float64                          `gorm:"type:decimal(10,2)" json:"salary_expectation_min"`
	SalaryExpectationMax *float64                          `gorm:"type:decimal(10,2)" json:"salary_expectation_max"`
	PreferredLocations   datatypes.JSONSlice[string]        `json:"preferred_locations"`
	RemotePreference     string                            `gorm:"type:varchar(20);default:flexible" json:"remote_preference" validate:"oneof=remote hybrid onsite flexible"`
	AvailabilityDate     *time.Time                        `gorm:"type:date" json:"availability_date,omitempty"`
	Skills               datatypes.JSONSlice[string]        `json:"skills"`
	Languages            datatypes.JSONSlice[LanguageSkill] `json:"languages"`
	Certifications       datatypes.JSONSlice[string]        `json:"certifications"`
	Education            datatypes.JSONSlice[Education]     `json:"education"`
	WorkAuthorization    string                            `gorm:"type:varchar(100)" json:"work_authorization" validate:"max=100"`
	WillingToRelocate    bool                              `json:"willing_to_relocate"`
}

// CandidateProfile extends a candidate user with job search information
type CandidateProfile struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	EditableCandidateInfo
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewCandidateProfile returns an empty profile for the given user.
func NewCandidateProfile(userID uuid.UUID) *CandidateProfile {
	return &CandidateProfile{
		UserID: userID,
		EditableCandidateInfo: EditableCandidateInfo{
			RemotePreference:   RemotePreferenceFlexible,
			PreferredLocations: datatypes.JSONSlice[string]{},
			Skills:             datatypes.JSONSlice[string]{},
			Languages:          datatypes.JSONSlice[LanguageSkill]{},
			Certifications:     datatypes.JSONSlice[string]{},
			Education:          datatypes.JSONSlice[Education]{},
		},
	}
}

// String needs the User relation loaded to print the username.
func (p *CandidateProfile) String() string {
	if p.User == nil {
		return fmt.Sprintf("Profile: %s", p.UserID)
	}
	return fmt.Sprintf("Profile: %s", p.User.Username)
}

// Validate checks the remote preference and text lengths.
func (p *CandidateProfile) Validate() error {
	return validateStruct(&p.EditableCandidateInfo)
}

// BeforeSave fills the default remote preference and validates the record.
func (p *CandidateProfile) BeforeSave(tx *gorm.DB) error {
	if p.RemotePreference == "" {
		p.RemotePreference = RemotePreferenceFlexible
	}
	return p.Validate()
}
