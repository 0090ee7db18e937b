package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/auth"
	"socialfeed/backend/internal/database"
	"socialfeed/backend/internal/models"
	"socialfeed/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// CredentialsInput defines the structure for registration and login.
type CredentialsInput struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"securepass"`
}

// StatusInput defines the structure for a presence update.
type StatusInput struct {
	Status string `json:"status" example:"online"`
}

// PublicUser is the minimal user view returned with a token.
type PublicUser struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"newuser"`
}

// AuthResponse carries a fresh token plus the public user view.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// ProfileResponse is the authenticated user's own profile.
type ProfileResponse struct {
	ID           uint   `json:"id" example:"1"`
	Username     string `json:"username" example:"newuser"`
	ProfileImage string `json:"profileImage"`
	Status       string `json:"status" example:"online"`
}

// ErrorResponse documents the failure envelope for swagger.
type ErrorResponse struct {
	Error apierror.Error `json:"error"`
}

// endregion

// normalizeUsername trims surrounding whitespace and lowercases, so lookups and
// the unique index are case-insensitive.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Registration Info"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func Register(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	// Limits are in characters, not bytes.
	username := normalizeUsername(input.Username)
	if utf8.RuneCountInString(username) < 3 {
		c.Error(apierror.Validation("Username must be at least 3 characters"))
		return
	}
	if utf8.RuneCountInString(input.Password) < 6 {
		c.Error(apierror.Validation("Password must be at least 6 characters"))
		return
	}

	var existing models.User
	err := database.DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		c.Error(apierror.New(apierror.CodeUsernameTaken, "Username is already taken"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Error(err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(err)
		return
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		ProfileImage: models.DefaultProfileImage,
		Status:       models.StatusOnline,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration for the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Error(apierror.New(apierror.CodeUsernameTaken, "Username is already taken"))
			return
		}
		c.Error(err)
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  PublicUser{ID: user.ID, Username: user.Username},
	})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user and returns a new token. A missing user and
// @Description  a wrong password are deliberately indistinguishable.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Login Info"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	username := normalizeUsername(input.Username)

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.Error(apierror.New(apierror.CodeInvalidCredentials, "Invalid username or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.Error(apierror.New(apierror.CodeInvalidCredentials, "Invalid username or password"))
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  PublicUser{ID: user.ID, Username: user.Username},
	})
}

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.Error(apierror.New(apierror.CodeUserNotFound, "User not found"))
		return
	}

	c.JSON(http.StatusOK, profileResponse(user))
}

// UpdateStatus godoc
// @Summary      Update presence status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body StatusInput true "Presence"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/status [put]
func UpdateStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apierror.Validation("Invalid request body"))
		return
	}

	status := models.UserStatus(input.Status)
	if status != models.StatusOnline && status != models.StatusOffline {
		c.Error(apierror.Validation("Status must be 'online' or 'offline'"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.Error(apierror.New(apierror.CodeUserNotFound, "User not found"))
		return
	}

	if err := database.DB.Model(&user).Update("status", status).Error; err != nil {
		c.Error(err)
		return
	}

	user.Status = status
	c.JSON(http.StatusOK, profileResponse(user))
}

func profileResponse(user models.User) ProfileResponse {
	return ProfileResponse{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
		Status:       string(user.Status),
	}
}

// currentUserID returns the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get(auth.ContextUserID)
	return id.(uint)
}

// currentUsername returns the authenticated user's (lowercase) username.
func currentUsername(c *gin.Context) string {
	name, _ := c.Get(auth.ContextUsername)
	return name.(string)
}
