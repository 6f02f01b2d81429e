package model

import (
	"time"

	"gorm.io/gorm"
)

// Company sizes
const (
	CompanySize1To10     = "1-10"
	CompanySize11To50    = "11-50"
	CompanySize51To200   = "51-200"
	CompanySize201To500  = "201-500"
	CompanySize501To1000 = "501-1000"
	CompanySize1001Plus  = "1001+"
)

// EditableCompanyInfo is part of company profile that recruiters can edit
type EditableCompanyInfo struct {
	Name        string `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `gorm:"type:text" json:"website" validate:"omitempty,url"`
	Logo        string `gorm:"type:text" json:"logo"`
	Industry    string `gorm:"type:varchar(100)" json:"industry" validate:"max=100"`
	Size        string `gorm:"type:varchar(50)" json:"size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1001+"`
	Location    string `gorm:"type:varchar(200)" json:"location" validate:"max=200"`
}

// Company is an employer that owns job postings
type Company struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EditableCompanyInfo
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	JobPostings []JobPosting `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"job_postings,omitempty"`
}

func (c *Company) String() string { return c.Name }

// Validate checks field formats and the size choice.
func (c *Company) Validate() error {
	return validateStruct(c)
}

// BeforeSave validates the record.
func (c *Company) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
