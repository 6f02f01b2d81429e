package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type" binding:"required,oneof=candidate recruiter"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Response is returned by register and login
type Response struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// LocalRegisterHandler handles local registration by receiving username and password
// @Summary Handles local registration by receiving username and password
// @Description Username must not already exist and password must be at least 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "user_type can be only 'candidate' or 'recruiter'"
// @Success 201 {object} Response
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username, password, and user_type (Only 'candidate' or 'recruiter') must be provided",
		})
		return
	}

	db := lh.DB.WithContext(c.Request.Context())

	var user model.User
	err := db.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		LogAuthAttempt("info", "Local", "Fail", info.Username, "register: username taken")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < MinPasswordLength {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	newUser := model.NewUser()
	newUser.Username = info.Username
	newUser.Password = hashedPassword
	newUser.UserType = info.UserType
	newUser.Email = info.Email
	newUser.FirstName = info.FirstName
	newUser.LastName = info.LastName

	if err := database.CreateAccount(db, newUser); err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		case database.IsDuplicateKey(err):
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Username already exist"})
		default:
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
		}
		return
	}

	accessToken, err := GenerateStandardToken(newUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", newUser.Username, "register")
	c.JSON(http.StatusCreated, Response{
		User:        *newUser,
		AccessToken: accessToken,
	})
}

// LocalLoginHandler handles local login by receiving username and password
// @Summary Handles local login by receiving username and password
// @Description Username must exist, password match and the account be active
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} Response
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Username not exist or password incorrect"
// @Failure 403 {object} utilities.ErrorResponse "Account is inactive"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.WithContext(c.Request.Context()).
		Preload("Preferences").
		Where("username = ?", info.Username).
		First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("warning", "Local", "Fail", info.Username, "unknown username")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("warning", "Local", "Fail", info.Username, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	if !user.IsActive {
		LogAuthAttempt("warning", "Local", "Fail", info.Username, "inactive account")
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Account is inactive",
		})
		return
	}

	accessToken, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.Username, "")
	c.JSON(http.StatusOK, Response{
		User:        user,
		AccessToken: accessToken,
	})
}
