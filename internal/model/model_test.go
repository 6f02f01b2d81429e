package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on"),
		&gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(MigrateAble...))
	return db
}

// seedJob creates a candidate, a recruiter, a company and an active posting.
func seedJob(t *testing.T, db *gorm.DB) (*User, *JobPosting) {
	t.Helper()
	candidate := NewUser()
	candidate.Username = "candidate"
	require.NoError(t, db.Create(candidate).Error)

	recruiter := NewUser()
	recruiter.Username = "recruiter"
	recruiter.UserType = RoleRecruiter
	require.NoError(t, db.Create(recruiter).Error)

	company := &Company{EditableCompanyInfo: EditableCompanyInfo{Name: "Acme"}}
	require.NoError(t, db.Create(company).Error)

	job := NewJobPosting()
	job.CompanyID = company.ID
	job.RecruiterID = recruiter.ID
	job.Title = "Go Developer"
	job.Status = JobStatusActive
	require.NoError(t, db.Create(job).Error)
	return candidate, job
}
