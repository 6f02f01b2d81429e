package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPostingDefaults(t *testing.T) {
	j := NewJobPosting()
	assert.Equal(t, RemoteTypeOnsite, j.RemoteType)
	assert.Equal(t, EmploymentFullTime, j.EmploymentType)
	assert.Equal(t, "USD", j.SalaryCurrency)
	assert.Equal(t, JobStatusDraft, j.Status)
	assert.True(t, j.RequiresCoverLetter)
	assert.Equal(t, uint(0), j.ExperienceMin)
	assert.Nil(t, j.ExperienceMax)
}

func TestJobPostingString(t *testing.T) {
	j := NewJobPosting()
	j.Title = "Senior Django Developer"
	assert.Equal(t, "Senior Django Developer", j.String())
	j.Company = &Company{EditableCompanyInfo: EditableCompanyInfo{Name: "TechCorp Inc."}}
	assert.Equal(t, "Senior Django Developer at TechCorp Inc.", j.String())
}

func TestJobPostingIsOpen(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	j := NewJobPosting()
	assert.False(t, j.IsOpen(now), "draft postings are closed")

	j.Status = JobStatusActive
	assert.True(t, j.IsOpen(now))

	sameDay := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	j.ApplicationDeadline = &sameDay
	assert.True(t, j.IsOpen(now), "open through the deadline day")

	dayBefore := sameDay.AddDate(0, 0, -1)
	j.ApplicationDeadline = &dayBefore
	assert.False(t, j.IsOpen(now))

	j.ApplicationDeadline = nil
	j.Status = JobStatusPaused
	assert.False(t, j.IsOpen(now))
}

func TestJobPostingValidate(t *testing.T) {
	j := NewJobPosting()
	j.Title = "Go Developer"
	assert.NoError(t, j.Validate())

	j.RemoteType = "moon"
	assert.ErrorIs(t, j.Validate(), ErrValidation)

	j.RemoteType = RemoteTypeRemote
	j.EmploymentType = "gig"
	assert.ErrorIs(t, j.Validate(), ErrValidation)

	j.EmploymentType = EmploymentContract
	j.Title = ""
	assert.ErrorIs(t, j.Validate(), ErrValidation)
}

func TestJobPostingBeforeSaveFillsDefaults(t *testing.T) {
	db := openTestDB(t)
	_, job := seedJob(t, db)

	bare := &JobPosting{CompanyID: job.CompanyID, RecruiterID: job.RecruiterID}
	bare.Title = "Bare"
	require.NoError(t, db.Create(bare).Error)

	var reloaded JobPosting
	require.NoError(t, db.First(&reloaded, bare.ID).Error)
	assert.Equal(t, JobStatusDraft, reloaded.Status)
	assert.Equal(t, RemoteTypeOnsite, reloaded.RemoteType)
	assert.Equal(t, "USD", reloaded.SalaryCurrency)
}

func TestToJobPostingResponse(t *testing.T) {
	candidate := User{ID: uuid.New(), UserType: RoleCandidate}
	recruiter := User{ID: uuid.New(), UserType: RoleRecruiter}

	j := NewJobPosting()
	j.ID = 4
	j.Title = "Go Developer"
	j.Applications = []Application{
		{CandidateID: candidate.ID, JobID: 4},
		{CandidateID: uuid.New(), JobID: 4},
	}

	resp := j.ToJobPostingResponse(candidate)
	assert.Equal(t, 2, resp.ApplicationCount)
	assert.True(t, resp.UserApplied)
	assert.Equal(t, "Go Developer", resp.Title)

	resp = j.ToJobPostingResponse(recruiter)
	assert.False(t, resp.UserApplied)
}

func TestCompanyValidate(t *testing.T) {
	c := &Company{EditableCompanyInfo: EditableCompanyInfo{Name: "Acme", Size: CompanySize1001Plus}}
	assert.NoError(t, c.Validate())
	assert.Equal(t, "Acme", c.String())

	c.Size = "huge"
	assert.ErrorIs(t, c.Validate(), ErrValidation)

	c.Size = ""
	c.Website = "not a url"
	assert.ErrorIs(t, c.Validate(), ErrValidation)
}

func TestCandidateProfileDefaults(t *testing.T) {
	id := uuid.New()
	p := NewCandidateProfile(id)
	assert.Equal(t, RemotePreferenceFlexible, p.RemotePreference)
	assert.Equal(t, "Profile: "+id.String(), p.String())

	p.RemotePreference = "mars"
	assert.ErrorIs(t, p.Validate(), ErrValidation)

	p.RemotePreference = ""
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, RemotePreferenceFlexible, p.RemotePreference)
}
