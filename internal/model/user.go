// Package model contain gorm model for recording data to database
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

var roleLabel = map[string]string{
	RoleCandidate: "Candidate",
	RoleRecruiter: "Recruiter",
	RoleAdmin:     "Admin",
}

// EditableUserInfo is part of user profile that the owner can edit
type EditableUserInfo struct {
	FirstName      string `gorm:"type:varchar(150)" json:"first_name"`
	LastName       string `gorm:"type:varchar(150)" json:"last_name"`
	Email          string `gorm:"type:varchar(254)" json:"email" validate:"omitempty,email"`
	ProfilePicture string `gorm:"type:text" json:"profile_picture"`
	Bio            string `gorm:"type:text" json:"bio"`
	PhoneNumber    string `gorm:"type:varchar(20)" json:"phone_number" validate:"max=20"`
	Location       string `gorm:"type:varchar(100)" json:"location" validate:"max=100"`
	LinkedinURL    string `gorm:"type:text" json:"linkedin_url" validate:"omitempty,url"`
	GithubURL      string `gorm:"type:text" json:"github_url" validate:"omitempty,url"`
	PortfolioURL   string `gorm:"type:text" json:"portfolio_url" validate:"omitempty,url"`
}

// User is the account of a candidate, recruiter or admin. The role lives in
// UserType and role specific data hangs off optional relations.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" validate:"required,max=150"`
	Password string    `gorm:"type:text" json:"-"`
	UserType string    `gorm:"type:varchar(20);not null;index" json:"user_type" validate:"oneof=candidate recruiter admin"`
	EditableUserInfo
	IsActive  bool      `json:"is_active"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Preferences      *UserPreferences  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"preferences,omitempty"`
	CandidateProfile *CandidateProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"candidate_profile,omitempty"`
}

// NewUser returns a user carrying the column defaults.
func NewUser() *User {
	return &User{
		UserType: RoleCandidate,
		IsActive: true,
	}
}

// IsCandidate reports whether the user registered as a candidate.
func (u *User) IsCandidate() bool { return u.UserType == RoleCandidate }

// IsRecruiter reports whether the user registered as a recruiter.
func (u *User) IsRecruiter() bool { return u.UserType == RoleRecruiter }

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool { return u.UserType == RoleAdmin }

// UserTypeLabel returns the human readable role name.
func (u *User) UserTypeLabel() string {
	if label, ok := roleLabel[u.UserType]; ok {
		return label
	}
	return u.UserType
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.UserTypeLabel())
}

// Validate checks field formats and the user type.
func (u *User) Validate() error {
	return validateStruct(u)
}

// BeforeCreate assigns the uuid primary key.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave fills the default role and validates the record. Column
// updates carry their values in a map and leave u as the bare query model,
// so there is nothing to validate.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		return nil
	}
	if u.UserType == "" {
		u.UserType = RoleCandidate
	}
	return u.Validate()
}

// UserPreferences holds notification and visibility switches of a user.
type UserPreferences struct {
	ID                        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ReceiveEmailNotifications bool      `json:"receive_email_notifications"`
	ReceiveSMSNotifications   bool      `json:"receive_sms_notifications"`
	RealTimeFeedbackEnabled   bool      `json:"real_time_feedback_enabled"`
	CommunityVisibility       bool      `json:"community_visibility"`
	ShareAnonymousFeedback    bool      `json:"share_anonymous_feedback"`
	CreatedAt                 time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewUserPreferences returns the preferences created alongside a new user.
func NewUserPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:                    userID,
		ReceiveEmailNotifications: true,
		ReceiveSMSNotifications:   false,
		RealTimeFeedbackEnabled:   true,
		CommunityVisibility:       true,
		ShareAnonymousFeedback:    true,
	}
}

// String needs the User relation loaded to print the username.
func (p *UserPreferences) String() string {
	if p.User == nil {
		return fmt.Sprintf("Preferences for %s", p.UserID)
	}
	return fmt.Sprintf("Preferences for %s", p.User.Username)
}
