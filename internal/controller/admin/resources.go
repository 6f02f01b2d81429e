package admin

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// searchField is a case insensitive substring match on a column of the
// resource table, or on a column of a row it references.
type searchField struct {
	column string
	// fk and table are set when column lives in the referenced table
	fk    string
	table string
}

func own(column string) searchField { return searchField{column: column} }

func via(fk string, table string, column string) searchField {
	return searchField{column: column, fk: fk, table: table}
}

func (f searchField) clause() string {
	if f.fk == "" {
		return controller.LikeClause(f.column)
	}
	return fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s)", f.fk, f.table, controller.LikeClause(f.column))
}

// searchScope ORs every search field against term.
func searchScope(fields []searchField, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(fields) == 0 {
			return db
		}
		clauses := make([]string, 0, len(fields))
		args := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			clauses = append(clauses, f.clause())
			args = append(args, controller.ContainsPattern(term))
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// filterScope adds an equality condition for every filter field present in
// the query string. "true" and "false" are compared as booleans.
func filterScope(c *gin.Context, fields []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, f := range fields {
			value, ok := c.GetQuery(f)
			if !ok || value == "" {
				continue
			}
			switch value {
			case "true":
				db = db.Where(f+" = ?", true)
			case "false":
				db = db.Where(f+" = ?", false)
			default:
				db = db.Where(f+" = ?", value)
			}
		}
		return db
	}
}

// resource is one model exposed under /admin/:resource.
type resource interface {
	name() string
	uuidKey() bool
	list(c *gin.Context, db *gorm.DB) (interface{}, error)
	get(db *gorm.DB, key interface{}) (interface{}, error)
	create(c *gin.Context, db *gorm.DB) (interface{}, error)
	update(c *gin.Context, db *gorm.DB, key interface{}) (interface{}, error)
	delete(db *gorm.DB, key interface{}) error
}

// modelResource implements resource for the gorm model T.
type modelResource[T any] struct {
	resourceName string
	search       []searchField
	filters      []string
	order        string
	uuid         bool

	// fresh returns the record a create request body is decoded onto
	fresh func() *T
	// createFunc replaces the default decode and insert
	createFunc func(c *gin.Context, db *gorm.DB) (*T, error)
	// keep copies fields an update must not change from stored to edited
	keep func(stored *T, edited *T)
}

func (r *modelResource[T]) name() string  { return r.resourceName }
func (r *modelResource[T]) uuidKey() bool { return r.uuid }

func (r *modelResource[T]) list(c *gin.Context, db *gorm.DB) (interface{}, error) {
	items := []T{}
	err := db.Scopes(
		controller.Paginate(c),
		searchScope(r.search, c.Query("search")),
		filterScope(c, r.filters),
	).Order(r.order).Find(&items).Error
	return items, err
}

func (r *modelResource[T]) get(db *gorm.DB, key interface{}) (interface{}, error) {
	return r.find(db, key)
}

func (r *modelResource[T]) find(db *gorm.DB, key interface{}) (*T, error) {
	item := new(T)
	if err := db.Where("id = ?", key).First(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *modelResource[T]) create(c *gin.Context, db *gorm.DB) (interface{}, error) {
	if r.createFunc != nil {
		return r.createFunc(c, db)
	}

	item := new(T)
	if r.fresh != nil {
		item = r.fresh()
	}
	if err := decodeBody(c, item); err != nil {
		return nil, err
	}
	if err := db.Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *modelResource[T]) update(c *gin.Context, db *gorm.DB, key interface{}) (interface{}, error) {
	stored, err := r.find(db, key)
	if err != nil {
		return nil, err
	}

	edited := *stored
	if err := decodeBody(c, &edited); err != nil {
		return nil, err
	}
	if r.keep != nil {
		r.keep(stored, &edited)
	}

	if err := db.Omit(clause.Associations).Save(&edited).Error; err != nil {
		return nil, err
	}
	return &edited, nil
}

func (r *modelResource[T]) delete(db *gorm.DB, key interface{}) error {
	result := db.Where("id = ?", key).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateUser is the request body of an admin creating a user. The password
// is hashed before it is stored.
type CreateUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
	IsActive *bool  `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
	model.EditableUserInfo
}

func createUser(c *gin.Context, db *gorm.DB) (*model.User, error) {
	body := CreateUser{}
	if err := decodeBody(c, &body); err != nil {
		return nil, err
	}
	if len(body.Password) < auth.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", model.ErrValidation, auth.MinPasswordLength)
	}

	hashed, err := utilities.HashPassword(body.Password)
	if err != nil {
		return nil, err
	}

	user := model.NewUser()
	user.Username = body.Username
	user.Password = hashed
	user.UserType = body.UserType
	user.IsStaff = body.IsStaff
	if body.IsActive != nil {
		user.IsActive = *body.IsActive
	}
	user.EditableUserInfo = body.EditableUserInfo

	if err := database.CreateAccount(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// registry lists every model the admin API serves, keyed by URL name.
var registry = map[string]resource{}

// resourceNames keeps registration order for the index endpoint.
var resourceNames []string

func register(r resource) {
	registry[r.name()] = r
	resourceNames = append(resourceNames, r.name())
}

func init() {
	register(&modelResource[model.User]{
		resourceName: "users",
		search:       []searchField{own("username"), own("email"), own("first_name"), own("last_name")},
		filters:      []string{"user_type", "is_staff", "is_active"},
		order:        "username",
		uuid:         true,
		createFunc:   createUser,
		keep: func(stored *model.User, edited *model.User) {
			edited.UserType = stored.UserType
		},
	})
	register(&modelResource[model.UserPreferences]{
		resourceName: "user-preferences",
		search:       []searchField{via("user_id", "users", "username"), via("user_id", "users", "email")},
		filters:      []string{"receive_email_notifications", "real_time_feedback_enabled", "community_visibility"},
		order:        "id",
	})
	register(&modelResource[model.Company]{
		resourceName: "companies",
		search:       []searchField{own("name"), own("industry"), own("location")},
		filters:      []string{"industry", "size"},
		order:        "name",
	})
	register(&modelResource[model.JobPosting]{
		resourceName: "job-postings",
		search:       []searchField{own("title"), via("company_id", "companies", "name"), own("location")},
		filters:      []string{"status", "remote_type", "employment_type", "company_id"},
		order:        "created_at DESC",
		fresh:        model.NewJobPosting,
		keep: func(stored *model.JobPosting, edited *model.JobPosting) {
			edited.RecruiterID = stored.RecruiterID
		},
	})
	register(&modelResource[model.CandidateProfile]{
		resourceName: "candidate-profiles",
		search: []searchField{
			via("user_id", "users", "username"), via("user_id", "users", "email"),
			own("current_title"), own("current_company"),
		},
		filters: []string{"remote_preference", "willing_to_relocate"},
		order:   "id",
		fresh: func() *model.CandidateProfile {
			return model.NewCandidateProfile(uuid.Nil)
		},
	})
	register(&modelResource[model.Application]{
		resourceName: "applications",
		search:       []searchField{via("candidate_id", "users", "username"), via("job_id", "job_postings", "title")},
		filters:      []string{"status", "job_id", "candidate_id"},
		order:        "created_at DESC",
		keep: func(stored *model.Application, edited *model.Application) {
			edited.CandidateID = stored.CandidateID
			edited.JobID = stored.JobID
		},
	})
	register(&modelResource[model.ApplicationFeedback]{
		resourceName: "application-feedback",
		search:       []searchField{own("strengths"), own("areas_for_improvement"), own("detailed_comments")},
		filters:      []string{"feedback_type", "is_visible_to_candidate", "rating", "application_id"},
		order:        "created_at DESC",
		fresh:        model.NewApplicationFeedback,
	})
	register(&modelResource[model.FeedbackResponse]{
		resourceName: "feedback-responses",
		search:       []searchField{own("response_text")},
		filters:      []string{"is_public", "feedback_id"},
		order:        "created_at DESC",
	})
	register(&modelResource[model.FeedbackTemplate]{
		resourceName: "feedback-templates",
		search:       []searchField{own("name"), via("created_by_id", "users", "username")},
		filters:      []string{"feedback_type", "is_active"},
		order:        "name",
		fresh:        model.NewFeedbackTemplate,
	})
	register(&modelResource[model.CommunityPost]{
		resourceName: "community-posts",
		search:       []searchField{own("title"), own("content"), via("author_id", "users", "username")},
		filters:      []string{"post_type", "is_anonymous", "is_pinned"},
		order:        "is_pinned DESC, created_at DESC",
		keep: func(stored *model.CommunityPost, edited *model.CommunityPost) {
			edited.AuthorID = stored.AuthorID
		},
	})
	register(&modelResource[model.CommunityComment]{
		resourceName: "community-comments",
		search: []searchField{
			own("content"), via("author_id", "users", "username"), via("post_id", "community_posts", "title"),
		},
		filters: []string{"is_anonymous", "post_id"},
		order:   "created_at",
	})
	register(&modelResource[model.MentorshipRequest]{
		resourceName: "mentorship-requests",
		search: []searchField{
			via("mentee_id", "users", "username"), via("mentor_id", "users", "username"), own("topic"),
		},
		filters: []string{"status"},
		order:   "created_at DESC",
		keep: func(stored *model.MentorshipRequest, edited *model.MentorshipRequest) {
			edited.MenteeID = stored.MenteeID
			edited.MentorID = stored.MentorID
		},
	})
	register(&modelResource[model.ResourceShare]{
		resourceName: "resource-shares",
		search:       []searchField{own("title"), own("description"), via("shared_by_id", "users", "username")},
		filters:      []string{"resource_type"},
		order:        "upvotes DESC, created_at DESC",
		keep: func(stored *model.ResourceShare, edited *model.ResourceShare) {
			edited.SharedByID = stored.SharedByID
		},
	})
	register(&modelResource[model.AIDecisionLog]{
		resourceName: "ai-decisions",
		search:       []searchField{own("model_version"), own("explanation")},
		filters:      []string{"decision_type", "human_reviewed", "human_override", "application_id"},
		order:        "created_at DESC",
	})
	register(&modelResource[model.BiasAuditLog]{
		resourceName: "bias-audits",
		search:       []searchField{own("model_version"), own("findings"), via("audited_by_id", "users", "username")},
		filters:      []string{"audit_type", "bias_detected", "bias_severity"},
		order:        "audit_date DESC",
	})
	register(&modelResource[model.EthicalAIGuideline]{
		resourceName: "ethical-guidelines",
		search:       []searchField{own("title"), own("principle"), own("description")},
		filters:      []string{"principle", "is_active"},
		order:        "principle, title",
		fresh:        model.NewEthicalAIGuideline,
	})
	register(&modelResource[model.DataPrivacyLog]{
		resourceName: "privacy-logs",
		search: []searchField{
			via("user_id", "users", "username"), via("accessed_by_id", "users", "username"),
			own("data_type"), own("purpose"),
		},
		filters: []string{"access_type", "consent_given", "user_id"},
		order:   "created_at DESC",
	})
}
