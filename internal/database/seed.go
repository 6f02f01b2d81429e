package database

import (
	"fmt"
	"io"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// SamplePassword is the password of every account created by PopulateSampleData.
const SamplePassword = "demo123"

// SampleUsernames are the accounts created by PopulateSampleData.
var SampleUsernames = []string{"alice_candidate", "bob_candidate", "recruiter_jane"}

// PopulateSampleData fills an empty database with a small demonstration data
// set and writes progress to out. It is not idempotent: a second run fails on
// the unique username of the first sample account.
func PopulateSampleData(db *gorm.DB, out io.Writer) error {
	fmt.Fprintln(out, "Populating Yardly with sample data...")
	fmt.Fprintln(out)

	hashed, err := utilities.HashPassword(SamplePassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		fmt.Fprintln(out, "Creating users...")
		newAccount := func(username, email, userType, first, last, bio, location string) (*model.User, error) {
			u := model.NewUser()
			u.Username = username
			u.Password = hashed
			u.UserType = userType
			u.Email = email
			u.FirstName = first
			u.LastName = last
			u.Bio = bio
			u.Location = location
			if err := CreateAccount(tx, u); err != nil {
				return nil, err
			}
			return u, nil
		}

		alice, err := newAccount("alice_candidate", "alice@example.com", model.RoleCandidate,
			"Alice", "Johnson", "Passionate software engineer with 5 years of Python/Django experience.", "San Francisco, CA")
		if err != nil {
			return err
		}
		bob, err := newAccount("bob_candidate", "bob@example.com", model.RoleCandidate,
			"Bob", "Smith", "Full-stack developer specializing in web applications.", "New York, NY")
		if err != nil {
			return err
		}
		jane, err := newAccount("recruiter_jane", "jane@techcorp.com", model.RoleRecruiter,
			"Jane", "Recruiter", "Technical recruiter at TechCorp Inc.", "Austin, TX")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 3 users")

		fmt.Fprintln(out, "Creating companies...")
		techcorp := &model.Company{EditableCompanyInfo: model.EditableCompanyInfo{
			Name:        "TechCorp Inc.",
			Description: "Leading technology company building innovative solutions.",
			Website:     "https://techcorp.example.com",
			Industry:    "Technology",
			Size:        model.CompanySize201To500,
			Location:    "Austin, TX",
		}}
		startup := &model.Company{EditableCompanyInfo: model.EditableCompanyInfo{
			Name:        "StartupXYZ",
			Description: "Fast-growing startup revolutionizing the recruitment space.",
			Website:     "https://startupxyz.example.com",
			Industry:    "HR Tech",
			Size:        model.CompanySize11To50,
			Location:    "San Francisco, CA",
		}}
		if err := tx.Create(techcorp).Error; err != nil {
			return err
		}
		if err := tx.Create(startup).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 2 companies")

		fmt.Fprintln(out, "Creating job postings...")
		job1 := model.NewJobPosting()
		job1.CompanyID = techcorp.ID
		job1.RecruiterID = jane.ID
		job1.Title = "Senior Django Developer"
		job1.Description = "We are looking for an experienced Django developer to join our team."
		job1.Responsibilities = "- Build scalable web applications\n- Lead technical discussions\n- Mentor junior developers"
		job1.Requirements = "- 5+ years Python experience\n- 3+ years Django experience\n- Strong database skills"
		job1.PreferredQualifications = "- Experience with REST APIs\n- Cloud deployment experience"
		job1.Location = "Austin, TX"
		job1.RemoteType = model.RemoteTypeHybrid
		job1.EmploymentType = model.EmploymentFullTime
		job1.SalaryMin = model.Ptr(120000.0)
		job1.SalaryMax = model.Ptr(160000.0)
		job1.Benefits = "Health insurance, 401k, unlimited PTO, remote work flexibility"
		job1.SkillsRequired = datatypes.JSONSlice[string]{"Python", "Django", "PostgreSQL", "REST APIs"}
		job1.SkillsPreferred = datatypes.JSONSlice[string]{"Docker", "AWS", "React"}
		job1.ExperienceMin = 5
		job1.ExperienceMax = model.Ptr(uint(10))
		job1.Status = model.JobStatusActive
		job1.RequiresCoverLetter = true
		job1.CustomQuestions = datatypes.JSONSlice[model.CustomQuestion]{
			{Question: "Tell us about your most challenging Django project.", Required: true},
			{Question: "What interests you about TechCorp?", Required: true},
		}

		job2 := model.NewJobPosting()
		job2.CompanyID = startup.ID
		job2.RecruiterID = jane.ID
		job2.Title = "Full Stack Engineer"
		job2.Description = "Join our mission to transform recruitment with technology."
		job2.Responsibilities = "- Develop new features\n- Collaborate with product team\n- Participate in code reviews"
		job2.Requirements = "- 3+ years web development experience\n- JavaScript and Python proficiency"
		job2.Location = "San Francisco, CA"
		job2.RemoteType = model.RemoteTypeRemote
		job2.EmploymentType = model.EmploymentFullTime
		job2.SalaryMin = model.Ptr(100000.0)
		job2.SalaryMax = model.Ptr(140000.0)
		job2.Benefits = "Equity, health insurance, flexible hours, home office stipend"
		job2.SkillsRequired = datatypes.JSONSlice[string]{"JavaScript", "Python", "React", "Node.js"}
		job2.SkillsPreferred = datatypes.JSONSlice[string]{"TypeScript", "GraphQL"}
		job2.ExperienceMin = 3
		job2.Status = model.JobStatusActive

		if err := tx.Create(job1).Error; err != nil {
			return err
		}
		if err := tx.Create(job2).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 2 job postings")

		fmt.Fprintln(out, "Creating candidate profiles...")
		profile1 := model.NewCandidateProfile(alice.ID)
		profile1.YearsOfExperience = 5
		profile1.CurrentTitle = "Software Engineer"
		profile1.CurrentCompany = "Tech Solutions LLC"
		profile1.SalaryExpectationMin = model.Ptr(130000.0)
		profile1.SalaryExpectationMax = model.Ptr(150000.0)
		profile1.PreferredLocations = datatypes.JSONSlice[string]{"San Francisco, CA", "Austin, TX", "Remote"}
		profile1.RemotePreference = model.RemotePreferenceHybrid
		profile1.Skills = datatypes.JSONSlice[string]{"Python", "Django", "PostgreSQL", "Redis", "Docker", "AWS"}
		profile1.Languages = datatypes.JSONSlice[model.LanguageSkill]{
			{Language: "English", Proficiency: "Native"},
			{Language: "Spanish", Proficiency: "Intermediate"},
		}
		profile1.Education = datatypes.JSONSlice[model.Education]{
			{Degree: "BS Computer Science", School: "UC Berkeley", Year: 2019},
		}

		profile2 := model.NewCandidateProfile(bob.ID)
		profile2.YearsOfExperience = 3
		profile2.CurrentTitle = "Web Developer"
		profile2.CurrentCompany = "Digital Agency"
		profile2.SalaryExpectationMin = model.Ptr(110000.0)
		profile2.SalaryExpectationMax = model.Ptr(130000.0)
		profile2.RemotePreference = model.RemotePreferenceRemote
		profile2.Skills = datatypes.JSONSlice[string]{"JavaScript", "React", "Node.js", "Python", "MongoDB"}
		profile2.Languages = datatypes.JSONSlice[model.LanguageSkill]{
			{Language: "English", Proficiency: "Native"},
		}
		profile2.Education = datatypes.JSONSlice[model.Education]{
			{Degree: "BS Software Engineering", School: "MIT", Year: 2021},
		}

		if err := tx.Create(profile1).Error; err != nil {
			return err
		}
		if err := tx.Create(profile2).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 2 candidate profiles")

		fmt.Fprintln(out, "Creating applications...")
		app1 := model.NewApplication(alice.ID, job1.ID)
		app1.Status = model.ApplicationStatusInterview
		app1.CoverLetter = "Dear Hiring Manager,\n\nI am excited to apply for the Senior Django Developer position..."
		app1.AIMatchScore = model.Ptr(0.87)
		app1.AIMatchExplanation = "Strong match: Candidate has 5 years Python experience and 4 years Django experience. Skills align well with requirements."
		if err := tx.Create(app1).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 1 application")

		fmt.Fprintln(out, "Creating personalized feedback...")
		feedback := model.NewApplicationFeedback()
		feedback.ApplicationID = app1.ID
		feedback.ProvidedByID = jane.ID
		feedback.FeedbackType = model.FeedbackTypeInterview
		feedback.Strengths = "Alice demonstrated excellent understanding of Django ORM and database optimization. Her experience with scaling web applications was impressive, particularly the work she described on handling 1M+ requests per day."
		feedback.AreasForImprovement = "While technical skills are strong, I would recommend focusing on leadership communication skills for the senior role. Consider preparing more examples of mentoring and team collaboration."
		feedback.DetailedComments = "Overall, Alice is a strong candidate. The interview went well, and she showed deep technical knowledge. Her answers to system design questions were thorough and well-reasoned. We particularly liked her approach to database optimization. Next steps: Schedule a final round with the engineering director."
		feedback.Rating = model.Ptr(uint(4))
		feedback.NextSteps = "We will schedule a final round interview with our engineering director within the next week."
		feedback.IsVisibleToCandidate = true
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created personalized feedback")

		fmt.Fprintln(out, "Creating feedback templates...")
		template := model.NewFeedbackTemplate()
		template.Name = "Technical Interview Feedback"
		template.FeedbackType = model.FeedbackTypeInterview
		template.StrengthsTemplate = "[CUSTOMIZE: Specific technical strengths observed, with examples]"
		template.ImprovementTemplate = "[CUSTOMIZE: Specific areas where candidate can improve, with actionable advice]"
		template.CommentsTemplate = "[CUSTOMIZE: Overall assessment, key observations, and clear next steps]"
		template.CreatedByID = jane.ID
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created feedback template")

		fmt.Fprintln(out, "Creating community content...")
		post := &model.CommunityPost{
			AuthorID: alice.ID,
			EditablePostInfo: model.EditablePostInfo{
				Title:    "Tips for Django Interview Success",
				Content:  "Just finished an interview and wanted to share what helped me prepare:\n\n1. Review Django ORM deeply\n2. Practice system design questions\n3. Be ready to discuss scalability\n\nHappy to answer questions!",
				PostType: model.PostTypeAdvice,
				Tags:     datatypes.JSONSlice[string]{"django", "interviews", "tips"},
			},
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		resource := &model.ResourceShare{
			SharedByID:   bob.ID,
			Title:        "Django Best Practices Guide",
			Description:  "Comprehensive guide to Django development best practices",
			ResourceType: model.ResourceArticle,
			URL:          "https://docs.djangoproject.com/en/stable/misc/design-philosophies/",
			Tags:         datatypes.JSONSlice[string]{"django", "best-practices", "documentation"},
			Upvotes:      5,
		}
		if err := tx.Create(resource).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created community content")

		fmt.Fprintln(out, "Creating ethical AI guidelines...")
		guidelines := []model.EthicalAIGuideline{
			{
				Title:                 "Transparency in Candidate Screening",
				Description:           "All AI-based screening decisions must be transparent and explainable to candidates.",
				Principle:             "Transparency",
				ImplementationDetails: "We log all AI decisions in AIDecisionLog with explanations. Candidates can see their match scores and understand the reasoning.",
				Version:               "1.0",
				IsActive:              true,
			},
			{
				Title:                 "Bias Prevention in Matching",
				Description:           "AI matching algorithms must not discriminate based on protected characteristics.",
				Principle:             "Fairness",
				ImplementationDetails: "Regular bias audits are conducted. Protected characteristics are excluded from AI models. Demographic parity is monitored.",
				Version:               "1.0",
				IsActive:              true,
			},
			{
				Title:                 "Human Review Requirement",
				Description:           "AI recommendations must be reviewed by humans before making final decisions.",
				Principle:             "Human Oversight",
				ImplementationDetails: "All AI decisions have human_reviewed flag. Reviewers are identified. Override capability with justification required.",
				Version:               "1.0",
				IsActive:              true,
			},
		}
		if err := tx.Create(&guidelines).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created 3 ethical AI guidelines")

		audit := &model.BiasAuditLog{
			AuditType:    model.AuditComprehensive,
			AuditDate:    time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
			ModelVersion: "v1.0.0",
			SampleSize:   1000,
			Findings:     "Initial bias audit shows no significant disparities across demographic groups. All metrics within acceptable ranges.",
			BiasDetected: false,
			BiasSeverity: model.SeverityNone,
			Metrics: datatypes.JSONMap{
				"gender_parity":                0.98,
				"geographic_parity":            0.95,
				"age_distribution":             "balanced",
				"false_positive_rate_variance": 0.02,
			},
			AuditedByID: jane.ID,
		}
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created bias audit log")

		fmt.Fprintln(out)
		fmt.Fprintln(out, "✓ Sample data population complete!")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "You can now:")
		fmt.Fprintln(out, "  - Log in through POST /api/v1/auth/login")
		fmt.Fprintln(out, "  - Username: recruiter_jane / alice_candidate / bob_candidate")
		fmt.Fprintf(out, "  - Password: %s\n", SamplePassword)
		return nil
	})
}
