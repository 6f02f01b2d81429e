// Package candidate provides HTTP handlers for the candidate profile.
package candidate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micdr93/yardly/internal/controller"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// CandidateController handles candidate profile endpoints
type CandidateController struct {
	DB *database.DBinstanceStruct
}

// NewCandidateController creates a new instance of CandidateController
func NewCandidateController(db *database.DBinstanceStruct) *CandidateController {
	return &CandidateController{
		DB: db,
	}
}

// GetProfile returns the profile of the authenticated candidate.
// @Summary Get my candidate profile
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.CandidateProfile
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Profile not created yet"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/profile [get]
func (cc *CandidateController) GetProfile(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	profile := model.CandidateProfile{}
	if err := cc.DB.WithContext(c.Request.Context()).
		Preload("User").
		Where("user_id = ?", user.ID).
		First(&profile).Error; err != nil {
		controller.RespondFindError(c, "Candidate profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PutProfile creates the profile of the authenticated candidate or replaces
// every editable field of the existing one. Omitted fields are reset.
// @Summary Create or replace my candidate profile
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body model.EditableCandidateInfo true "Candidate profile"
// @Success 200 {object} model.CandidateProfile "Profile replaced"
// @Success 201 {object} model.CandidateProfile "Profile created"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/profile [put]
func (cc *CandidateController) PutProfile(c *gin.Context) {
	user, ok := controller.CurrentUser(c)
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	profile := model.CandidateProfile{}
	created := false
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			controller.RespondFindError(c, "Candidate profile", err)
			return
		}
		profile = *model.NewCandidateProfile(user.ID)
		created = true
	}

	info := model.NewCandidateProfile(user.ID).EditableCandidateInfo
	if err := controller.DecodeStrict(c, &info); err != nil {
		controller.RespondBadBody(c, err)
		return
	}

	if info.SalaryExpectationMin != nil && info.SalaryExpectationMax != nil &&
		*info.SalaryExpectationMin > *info.SalaryExpectationMax {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "salary_expectation_min can't be greater than salary_expectation_max",
		})
		return
	}
	profile.EditableCandidateInfo = info

	if err := db.Omit(clause.Associations).Save(&profile).Error; err != nil {
		controller.RespondSaveError(c, "save candidate profile", err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, profile)
		return
	}
	c.JSON(http.StatusOK, profile)
}
