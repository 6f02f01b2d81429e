package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"

	m "github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// TestSeedPassword is the plain password of every account in Fixtures.
const TestSeedPassword = "SeedPass123!"

// Fixtures holds the rows inserted by SeedTestData.
type Fixtures struct {
	Admin      m.User
	Candidate1 m.User
	Candidate2 m.User
	Recruiter1 m.User
	Recruiter2 m.User

	Profile1 m.CandidateProfile

	Company1 m.Company
	Company2 m.Company

	// ActiveJob belongs to Recruiter1, DraftJob to Recruiter1, OtherJob to Recruiter2.
	ActiveJob m.JobPosting
	DraftJob  m.JobPosting
	OtherJob  m.JobPosting

	// Application1 is Candidate1 applying to ActiveJob.
	Application1 m.Application
}

// NewTestDB opens a migrated in-memory SQLite database private to name.
func NewTestDB(name string) (*DBinstanceStruct, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return NewDBInstance(&DBConfig{
		Driver:     DriverSQLite,
		DBName:     name,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
	})
}

// GetTestDB returns a migrated in-memory database seeded by SeedTestData.
func GetTestDB(name string) (*DBinstanceStruct, *Fixtures, error) {
	db, err := NewTestDB(name)
	if err != nil {
		return nil, nil, err
	}
	fx, err := SeedTestData(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, fx, nil
}

// StartTestPostgres starts a PostgreSQL container and returns its teardown
// function and a config pointing at it.
func StartTestPostgres(ctx context.Context) (func(context.Context) error, *DBConfig, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}
	terminate := func(ctx context.Context) error { return dbContainer.Terminate(ctx) }

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		return terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	if err != nil {
		return terminate, nil, err
	}

	config := &DBConfig{
		Driver:    DriverPostgres,
		DBName:    dbName,
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}
	return terminate, config, nil
}

// SeedTestData inserts the accounts, companies, job postings and the
// application described by Fixtures.
func SeedTestData(db *DBinstanceStruct) (*Fixtures, error) {
	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return nil, err
	}

	fx := &Fixtures{}
	userSpecs := []struct {
		dst      *m.User
		username string
		role     string
	}{
		{&fx.Admin, "admin_user", m.RoleAdmin},
		{&fx.Candidate1, "candidate_1", m.RoleCandidate},
		{&fx.Candidate2, "candidate_2", m.RoleCandidate},
		{&fx.Recruiter1, "recruiter_1", m.RoleRecruiter},
		{&fx.Recruiter2, "recruiter_2", m.RoleRecruiter},
	}
	for _, s := range userSpecs {
		u := m.NewUser()
		u.Username = s.username
		u.Email = s.username + "@example.com"
		u.Password = hashedPwd
		u.UserType = s.role
		u.IsStaff = s.role == m.RoleAdmin
		if err := CreateAccount(db.DB, u); err != nil {
			return nil, err
		}
		*s.dst = *u
	}

	profile := m.NewCandidateProfile(fx.Candidate1.ID)
	profile.CurrentTitle = "Backend Engineer"
	profile.YearsOfExperience = 4
	profile.Skills = datatypes.JSONSlice[string]{"Go", "PostgreSQL"}
	if err := db.Create(profile).Error; err != nil {
		return nil, err
	}
	fx.Profile1 = *profile

	companies := []*m.Company{
		{EditableCompanyInfo: m.EditableCompanyInfo{Name: "TechNova", Industry: "Software", Size: m.CompanySize51To200, Location: "Austin, TX"}},
		{EditableCompanyInfo: m.EditableCompanyInfo{Name: "DataForge", Industry: "Consulting", Size: m.CompanySize11To50, Location: "Remote"}},
	}
	for _, c := range companies {
		if err := db.Create(c).Error; err != nil {
			return nil, err
		}
	}
	fx.Company1, fx.Company2 = *companies[0], *companies[1]

	jobSpecs := []struct {
		dst       *m.JobPosting
		company   uint
		recruiter m.User
		title     string
		status    string
		remote    string
		skills    []string
	}{
		{&fx.ActiveJob, fx.Company1.ID, fx.Recruiter1, "Backend Engineer", m.JobStatusActive, m.RemoteTypeHybrid, []string{"Go", "SQL"}},
		{&fx.DraftJob, fx.Company1.ID, fx.Recruiter1, "Frontend Developer", m.JobStatusDraft, m.RemoteTypeRemote, []string{"React"}},
		{&fx.OtherJob, fx.Company2.ID, fx.Recruiter2, "Data Analyst", m.JobStatusActive, m.RemoteTypeOnsite, []string{"SQL", "Python"}},
	}
	for _, s := range jobSpecs {
		j := m.NewJobPosting()
		j.CompanyID = s.company
		j.RecruiterID = s.recruiter.ID
		j.Title = s.title
		j.Description = s.title + " wanted"
		j.Location = "Austin, TX"
		j.Status = s.status
		j.RemoteType = s.remote
		j.SkillsRequired = datatypes.JSONSlice[string](s.skills)
		if err := db.Create(j).Error; err != nil {
			return nil, err
		}
		*s.dst = *j
	}

	app := m.NewApplication(fx.Candidate1.ID, fx.ActiveJob.ID)
	app.CoverLetter = "I would love to join."
	if err := app.SetStatus(m.ApplicationStatusSubmitted, time.Now()); err != nil {
		return nil, err
	}
	if err := db.Create(app).Error; err != nil {
		return nil, err
	}
	fx.Application1 = *app

	return fx, nil
}
