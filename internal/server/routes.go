// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/controller/account"
	"github.com/micdr93/yardly/internal/controller/admin"
	"github.com/micdr93/yardly/internal/controller/aiethics"
	"github.com/micdr93/yardly/internal/controller/application"
	"github.com/micdr93/yardly/internal/controller/candidate"
	"github.com/micdr93/yardly/internal/controller/community"
	"github.com/micdr93/yardly/internal/controller/company"
	"github.com/micdr93/yardly/internal/controller/feedback"
	"github.com/micdr93/yardly/internal/controller/jobpost"
	"github.com/micdr93/yardly/internal/middleware"
	"github.com/micdr93/yardly/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")
	if allowOrginsStr == "" {
		allowOrgins = []string{"http://localhost:3000"}
	}

	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)
	accountCtl := account.NewAccountController(s.DB)
	companyCtl := company.NewCompanyController(s.DB)
	jobCtl := jobpost.NewJobPostController(s.DB)
	candidateCtl := candidate.NewCandidateController(s.DB)
	applicationCtl := application.NewApplicationController(s.DB)
	feedbackCtl := feedback.NewFeedbackController(s.DB)
	communityCtl := community.NewCommunityController(s.DB)
	ethicsCtl := aiethics.NewAIEthicsController(s.DB)
	adminCtl := admin.NewAdminController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader(), middleware.EnvRateLimitMiddleware(), middleware.SizeLimit(middleware.DefaultMaxBodyBytes))

	r.GET("/", s.HomeHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
			authRoute.POST("logout", middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist), logout.LogoutHandler)
		}

		// Any authenticated, active account
		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist), middleware.CheckActive())

			accountRoute := needAuth.Group("/account")
			{
				accountRoute.GET("me", accountCtl.GetMe)
				accountRoute.PATCH("me", accountCtl.EditMe)
				accountRoute.GET("preferences", accountCtl.GetPreferences)
				accountRoute.PATCH("preferences", accountCtl.EditPreferencesHandler)
			}

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET("", companyCtl.GetCompanies)
				companyRoute.GET("/:id", companyCtl.GetCompanyByID)
				companyRoute.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
				companyRoute.POST("", companyCtl.CreateCompany)
				companyRoute.PATCH("/:id", companyCtl.EditCompany)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobCtl.GetPosts)
				jobRoute.GET("/:id", jobCtl.GetPostByID)
				jobRoute.POST("", middleware.CheckRole(model.RoleRecruiter), jobCtl.CreateJobPostHandler)
				jobRoute.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
				jobRoute.PATCH("/:id", jobCtl.EditJobPost)
				jobRoute.DELETE("/:id", jobCtl.DeleteJobPost)
				jobRoute.GET("/:id/applications", jobCtl.GetJobApplications)
			}

			candidateRoute := needAuth.Group("/candidate", middleware.CheckRole(model.RoleCandidate))
			{
				candidateRoute.GET("profile", candidateCtl.GetProfile)
				candidateRoute.PUT("profile", candidateCtl.PutProfile)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.POST("", middleware.CheckRole(model.RoleCandidate), applicationCtl.ApplicationHandler)
				applicationRoute.GET("/mine", middleware.CheckRole(model.RoleCandidate), applicationCtl.GetMyApplications)
				applicationRoute.GET("/:id", applicationCtl.GetApplicationByID)
				applicationRoute.PATCH("/:id/status", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), applicationCtl.UpdateStatusHandler)
				applicationRoute.POST("/:id/withdraw", middleware.CheckRole(model.RoleCandidate), applicationCtl.WithdrawHandler)
				applicationRoute.GET("/:id/feedback", feedbackCtl.GetFeedbackHandler)
				applicationRoute.POST("/:id/feedback", middleware.CheckRole(model.RoleRecruiter), feedbackCtl.CreateFeedbackHandler)
			}

			feedbackRoute := needAuth.Group("")
			{
				feedbackRoute.PATCH("/feedback/:id", middleware.CheckRole(model.RoleRecruiter), feedbackCtl.EditFeedbackHandler)
				feedbackRoute.POST("/feedback/:id/responses", middleware.CheckRole(model.RoleCandidate), feedbackCtl.CreateResponseHandler)
				feedbackRoute.GET("/feedback-templates", middleware.CheckRole(model.RoleRecruiter), feedbackCtl.GetTemplatesHandler)
				feedbackRoute.POST("/feedback-templates", middleware.CheckRole(model.RoleRecruiter), feedbackCtl.CreateTemplateHandler)
			}

			communityRoute := needAuth.Group("/community")
			{
				communityRoute.GET("/posts", communityCtl.GetPosts)
				communityRoute.POST("/posts", communityCtl.CreatePostHandler)
				communityRoute.GET("/posts/:id", communityCtl.GetPostByID)
				communityRoute.GET("/posts/:id/comments", communityCtl.GetCommentsHandler)
				communityRoute.POST("/posts/:id/comments", communityCtl.CreateCommentHandler)
				communityRoute.GET("/mentorship", communityCtl.GetMentorshipHandler)
				communityRoute.POST("/mentorship", communityCtl.CreateMentorshipHandler)
				communityRoute.PATCH("/mentorship/:id/status", communityCtl.UpdateMentorshipStatusHandler)
				communityRoute.GET("/resources", communityCtl.GetResourcesHandler)
				communityRoute.POST("/resources", communityCtl.CreateResourceHandler)
				communityRoute.POST("/resources/:id/upvote", communityCtl.UpvoteResourceHandler)
			}

			needAuth.GET("/ethical-guidelines", ethicsCtl.GetGuidelinesHandler)
			needAuth.GET("/privacy-logs/mine", ethicsCtl.GetMyPrivacyLogsHandler)

			decisionRoute := needAuth.Group("/ai-decisions", middleware.CheckRole(model.RoleAdmin, model.RoleRecruiter))
			{
				decisionRoute.GET("", ethicsCtl.GetDecisionsHandler)
				decisionRoute.POST("", ethicsCtl.CreateDecisionHandler)
				decisionRoute.POST("/:id/review", ethicsCtl.ReviewDecisionHandler)
			}

			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.GET("/bias-audits", ethicsCtl.GetBiasAuditsHandler)
				needAdmin.POST("/bias-audits", ethicsCtl.CreateBiasAuditHandler)
				needAdmin.POST("/ethical-guidelines", ethicsCtl.CreateGuidelineHandler)
				needAdmin.GET("/privacy-logs", ethicsCtl.GetPrivacyLogsHandler)
				needAdmin.POST("/privacy-logs", ethicsCtl.CreatePrivacyLogHandler)

				adminRoute := needAdmin.Group("/admin")
				{
					adminRoute.GET("", adminCtl.GetResources)
					adminRoute.GET("/:resource", adminCtl.ListRecords)
					adminRoute.POST("/:resource", adminCtl.CreateRecord)
					adminRoute.GET("/:resource/:id", adminCtl.GetRecord)
					adminRoute.PATCH("/:resource/:id", adminCtl.UpdateRecord)
					adminRoute.DELETE("/:resource/:id", adminCtl.DeleteRecord)
				}
			}
		}
	}

	return r
}

// HomeHandler greets the caller and points to the API root
func (s *MyServer) HomeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Yardly",
		"api":     "/api/v1",
		"health":  "/health",
	})
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
