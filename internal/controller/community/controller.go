// Package community provides HTTP handlers for the candidate community:
// forum posts, comments, peer mentorship and shared learning resources.
package community

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// CommunityController handles community related endpoints
type CommunityController struct {
	DB *database.DBinstanceStruct
}

// NewCommunityController creates a new instance of CommunityController
func NewCommunityController(db *database.DBinstanceStruct) *CommunityController {
	return &CommunityController{
		DB: db,
	}
}

// CreateComment is the request body of CreateCommentHandler
type CreateComment struct {
	Content     string `json:"content"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// CreateMentorship is the request body of CreateMentorshipHandler
type CreateMentorship struct {
	MentorID uuid.UUID `json:"mentor_id"`
	Topic    string    `json:"topic"`
	Message  string    `json:"message"`
}

// UpdateMentorshipStatus is the request body of UpdateMentorshipStatusHandler
type UpdateMentorshipStatus struct {
	Status string `json:"status"`
}

// EditableResource is the request body of CreateResourceHandler
type EditableResource struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ResourceType string   `json:"resource_type"`
	URL          string   `json:"url"`
	Tags         []string `json:"tags"`
}

// hideAuthor blanks the author of anonymous content unless viewer wrote it or is an admin.
func hideAuthor(authorID *uuid.UUID, anonymous bool, viewer model.User) {
	if anonymous && *authorID != viewer.ID && !viewer.IsAdmin() {
		*authorID = uuid.Nil
	}
}

func (cc *CommunityController) findPost(c *gin.Context, db *gorm.DB) (model.CommunityPost, bool) {
	id, ok := controller.PathID(c, "id")
	if !ok {
		return model.CommunityPost{}, false
	}
	post := model.CommunityPost{}
	if err := db.First(&post, id).Error; err != nil {
		controller.RespondFindError(c, "Post", err)
		return model.CommunityPost{}, false
	}
	return post, true
}

// GetPosts lists community posts, pinned first and then newest first.
// @Summary List community posts
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param post_type query string false "Only posts of this type" Enums(question, experience, advice, discussion)
// @Param tag query string false "Only posts carrying this tag, case insensitive"
// @Param search query string false "Substring of the title, case insensitive"
// @Success 200 {array} model.CommunityPost
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/posts [get]
func (cc *CommunityController) GetPosts(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := cc.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	if postType := c.Query("post_type"); postType != "" {
		result = result.Where("post_type = ?", postType)
	}
	if tag := c.Query("tag"); tag != "" {
		result = result.Where(controller.JSONArrayHas("tags", tag))
	}
	if search := c.Query("search"); search != "" {
		result = result.Where(controller.ContainsFold("title", search))
	}

	posts := []model.CommunityPost{}
	if err := result.Order("is_pinned DESC").Order("created_at DESC").Find(&posts).Error; err != nil {
		controller.RespondFindError(c, "Posts", err)
		return
	}
	for i := range posts {
		hideAuthor(&posts[i].AuthorID, posts[i].IsAnonymous, user)
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID returns a post with its comments and counts the view.
// @Summary Get community post
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of post"
// @Success 200 {object} model.CommunityPost
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/posts/{id} [get]
func (cc *CommunityController) GetPostByID(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	post, ok := cc.findPost(c, db)
	if !ok {
		return
	}

	if err := db.Model(&post).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		controller.RespondSaveError(c, "count view", err)
		return
	}

	if err := db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).First(&post, post.ID).Error; err != nil {
		controller.RespondFindError(c, "Post", err)
		return
	}

	hideAuthor(&post.AuthorID, post.IsAnonymous, user)
	for i := range post.Comments {
		hideAuthor(&post.Comments[i].AuthorID, post.Comments[i].IsAnonymous, user)
	}

	c.JSON(http.StatusOK, post)
}

// CreatePostHandler publishes a post written by the authenticated user.
// @Summary Create community post
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param post body model.EditablePostInfo true "Post"
// @Success 201 {object} model.CommunityPost
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/posts [post]
func (cc *CommunityController) CreatePostHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	post := model.CommunityPost{AuthorID: user.ID}
	if err := controller.DecodeStrict(c, &post.EditablePostInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := cc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&post).Error; err != nil {
		controller.RespondSaveError(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetCommentsHandler lists the comments of a post, oldest first.
// @Summary List comments of a post
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of post"
// @Success 200 {array} model.CommunityComment
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/posts/{id}/comments [get]
func (cc *CommunityController) GetCommentsHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	post, ok := cc.findPost(c, db)
	if !ok {
		return
	}

	comments := []model.CommunityComment{}
	if err := db.Scopes(controller.Paginate(c)).
		Where("post_id = ?", post.ID).
		Order("created_at").
		Find(&comments).Error; err != nil {
		controller.RespondFindError(c, "Comments", err)
		return
	}
	for i := range comments {
		hideAuthor(&comments[i].AuthorID, comments[i].IsAnonymous, user)
	}

	c.JSON(http.StatusOK, comments)
}

// CreateCommentHandler adds a comment under a post.
// @Summary Comment on a post
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of post"
// @Param comment body CreateComment true "Comment"
// @Success 201 {object} model.CommunityComment
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/posts/{id}/comments [post]
func (cc *CommunityController) CreateCommentHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	post, ok := cc.findPost(c, db)
	if !ok {
		return
	}

	body := CreateComment{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	comment := model.CommunityComment{
		PostID:      post.ID,
		AuthorID:    user.ID,
		Content:     body.Content,
		IsAnonymous: body.IsAnonymous,
	}
	if err := db.Omit(clause.Associations).Create(&comment).Error; err != nil {
		controller.RespondSaveError(c, "create comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// CreateMentorshipHandler asks another user for mentorship.
// @Summary Request mentorship
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param request body CreateMentorship true "Mentorship request"
// @Success 201 {object} model.MentorshipRequest
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, unknown mentor or self mentorship"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/mentorship [post]
func (cc *CommunityController) CreateMentorshipHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := CreateMentorship{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	if body.MentorID == user.ID {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "You can't request mentorship from yourself"})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var mentorCount int64
	if err := db.Model(&model.User{}).Where("id = ? AND is_active = ?", body.MentorID, true).Count(&mentorCount).Error; err != nil {
		controller.RespondFindError(c, "Mentor", err)
		return
	}
	if mentorCount == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "mentor_id must reference an active user"})
		return
	}

	request := model.MentorshipRequest{
		MenteeID: user.ID,
		MentorID: body.MentorID,
		Topic:    body.Topic,
		Message:  body.Message,
		Status:   model.MentorshipPending,
	}
	if err := db.Omit(clause.Associations).Create(&request).Error; err != nil {
		controller.RespondSaveError(c, "create mentorship request", err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetMentorshipHandler lists the mentorship requests the authenticated user
// sent or received.
// @Summary List my mentorship requests
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param role query string false "mentor for received requests, mentee for sent requests"
// @Param status query string false "Only requests in this status"
// @Success 200 {array} model.MentorshipRequest
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/mentorship [get]
func (cc *CommunityController) GetMentorshipHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	result := cc.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	switch c.Query("role") {
	case "mentor":
		result = result.Where("mentor_id = ?", user.ID)
	case "mentee":
		result = result.Where("mentee_id = ?", user.ID)
	default:
		result = result.Where("mentor_id = ? OR mentee_id = ?", user.ID, user.ID)
	}
	if status := c.Query("status"); status != "" {
		result = result.Where("status = ?", status)
	}

	requests := []model.MentorshipRequest{}
	if err := result.Order("created_at DESC").Find(&requests).Error; err != nil {
		controller.RespondFindError(c, "Mentorship requests", err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// UpdateMentorshipStatusHandler lets the mentor accept, decline or complete a request.
// @Summary Update mentorship request status
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of mentorship request"
// @Param status body UpdateMentorshipStatus true "New status"
// @Success 200 {object} model.MentorshipRequest
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the mentor of this request"
// @Failure 404 {object} utilities.ErrorResponse "Mentorship request not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/mentorship/{id}/status [patch]
func (cc *CommunityController) UpdateMentorshipStatusHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	request := model.MentorshipRequest{}
	if err := db.First(&request, id).Error; err != nil {
		controller.RespondFindError(c, "Mentorship request", err)
		return
	}

	if request.MentorID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only the mentor can update this mentorship request",
		})
		return
	}

	body := UpdateMentorshipStatus{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	request.Status = body.Status

	if err := db.Omit(clause.Associations).Save(&request).Error; err != nil {
		controller.RespondSaveError(c, "update mentorship request", err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetResourcesHandler lists shared resources, most upvoted first.
// @Summary List shared resources
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource_type query string false "Only resources of this type" Enums(article, video, course, book, tool, other)
// @Param tag query string false "Only resources carrying this tag, case insensitive"
// @Success 200 {array} model.ResourceShare
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/resources [get]
func (cc *CommunityController) GetResourcesHandler(c *gin.Context) {
	result := cc.DB.WithContext(c.Request.Context()).Scopes(controller.Paginate(c))
	if resourceType := c.Query("resource_type"); resourceType != "" {
		result = result.Where("resource_type = ?", resourceType)
	}
	if tag := c.Query("tag"); tag != "" {
		result = result.Where(controller.JSONArrayHas("tags", tag))
	}

	resources := []model.ResourceShare{}
	if err := result.Order("upvotes DESC").Order("created_at DESC").Find(&resources).Error; err != nil {
		controller.RespondFindError(c, "Resources", err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// CreateResourceHandler shares a learning resource.
// @Summary Share a resource
// @Tags Community
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resource body EditableResource true "Resource"
// @Success 201 {object} model.ResourceShare
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/resources [post]
func (cc *CommunityController) CreateResourceHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	body := EditableResource{}
	if err := controller.DecodeStrict(c, &body); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	resource := model.ResourceShare{
		SharedByID:   user.ID,
		Title:        body.Title,
		Description:  body.Description,
		ResourceType: body.ResourceType,
		URL:          body.URL,
		Tags:         body.Tags,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&resource).Error; err != nil {
		controller.RespondSaveError(c, "share resource", err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// UpvoteResourceHandler adds one upvote to a resource.
// @Summary Upvote a resource
// @Tags Community
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of resource"
// @Success 200 {object} model.ResourceShare
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resource not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /community/resources/{id}/upvote [post]
func (cc *CommunityController) UpvoteResourceHandler(c *gin.Context) {
	id, ok := controller.PathID(c, "id")
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	resource := model.ResourceShare{}
	if err := db.First(&resource, id).Error; err != nil {
		controller.RespondFindError(c, "Resource", err)
		return
	}

	if err := db.Model(&resource).UpdateColumn("upvotes", gorm.Expr("upvotes + ?", 1)).Error; err != nil {
		controller.RespondSaveError(c, "upvote resource", err)
		return
	}
	if err := db.First(&resource, resource.ID).Error; err != nil {
		controller.RespondFindError(c, "Resource", err)
		return
	}

	c.JSON(http.StatusOK, resource)
}
