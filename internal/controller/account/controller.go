// Package account provides HTTP handlers for the authenticated user's own
// account and notification preferences.
package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
)

// AccountController handles account related endpoints
type AccountController struct {
	DB *database.DBinstanceStruct
}

// NewAccountController creates a new instance of AccountController
func NewAccountController(db *database.DBinstanceStruct) *AccountController {
	return &AccountController{
		DB: db,
	}
}

// EditPreferences carries the preference switches a user may change.
// Omitted keys keep their current value.
type EditPreferences struct {
	ReceiveEmailNotifications *bool `json:"receive_email_notifications"`
	ReceiveSMSNotifications   *bool `json:"receive_sms_notifications"`
	RealTimeFeedbackEnabled   *bool `json:"real_time_feedback_enabled"`
	CommunityVisibility       *bool `json:"community_visibility"`
	ShareAnonymousFeedback    *bool `json:"share_anonymous_feedback"`
}

func (e EditPreferences) applyTo(p *model.UserPreferences) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.ReceiveEmailNotifications, e.ReceiveEmailNotifications)
	set(&p.ReceiveSMSNotifications, e.ReceiveSMSNotifications)
	set(&p.RealTimeFeedbackEnabled, e.RealTimeFeedbackEnabled)
	set(&p.CommunityVisibility, e.CommunityVisibility)
	set(&p.ShareAnonymousFeedback, e.ShareAnonymousFeedback)
}

// GetMe returns the authenticated user with preferences and, for
// candidates, the candidate profile.
// @Summary Get my account
// @Tags Account
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /account/me [get]
func (ac *AccountController) GetMe(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	found := model.User{}
	if err := ac.DB.WithContext(c.Request.Context()).
		Preload("Preferences").
		Preload("CandidateProfile").
		Where("id = ?", user.ID).
		First(&found).Error; err != nil {
		controller.RespondFindError(c, "User", err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// EditMe overwrites the editable profile fields of the authenticated user.
// @Summary Edit my account
// @Description Username, password, user type and flags can't be changed here
// @Tags Account
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param user body model.EditableUserInfo true "Fields to overwrite"
// @Success 200 {object} model.User
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /account/me [patch]
func (ac *AccountController) EditMe(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	found := model.User{}
	if err := db.Where("id = ?", user.ID).First(&found).Error; err != nil {
		controller.RespondFindError(c, "User", err)
		return
	}

	if err := controller.DecodeStrict(c, &found.EditableUserInfo); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Save(&found).Error; err != nil {
		controller.RespondSaveError(c, "update user information", err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// GetPreferences returns the preferences of the authenticated user.
// @Summary Get my preferences
// @Tags Account
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.UserPreferences
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Preferences not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /account/preferences [get]
func (ac *AccountController) GetPreferences(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	prefs := model.UserPreferences{}
	if err := ac.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		First(&prefs).Error; err != nil {
		controller.RespondFindError(c, "Preferences", err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// EditPreferencesHandler changes the given preference switches.
// @Summary Edit my preferences
// @Tags Account
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param preferences body EditPreferences true "Switches to change"
// @Success 200 {object} model.UserPreferences
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Preferences not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /account/preferences [patch]
func (ac *AccountController) EditPreferencesHandler(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	prefs := model.UserPreferences{}
	if err := db.Where("user_id = ?", user.ID).First(&prefs).Error; err != nil {
		controller.RespondFindError(c, "Preferences", err)
		return
	}

	edit := EditPreferences{}
	if err := controller.DecodeStrict(c, &edit); err != nil {
		controller.RespondBadBody(c, err)
		return
	}
	edit.applyTo(&prefs)

	if err := db.Omit(clause.Associations).Save(&prefs).Error; err != nil {
		controller.RespondSaveError(c, "update preferences", err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}
