package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/auth"
	"github.com/mallhub-dev/mallhub/internal/models"
)

// sessionCookieMaxAge is how long the browser keeps the session cookie
const sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *UserDetail `json:"user"`
}

// RegisterRequest represents a registration request. It binds from JSON or
// multipart form (the latter when a shop logo is attached).
type RegisterRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=8"`
	Username        string `json:"username" form:"username" binding:"required" validate:"required,min=1,max=50,alphanumdash"`
	UserType        string `json:"user_type" form:"user_type" binding:"required,oneof=customer seller"`
	ShopName        string `json:"shop_name" form:"shop_name"`
	ShopDescription string `json:"shop_description" form:"shop_description"`
}

// ProfileUpdateRequest represents a profile change request
type ProfileUpdateRequest struct {
	Username string `json:"username" validate:"omitempty,min=1,max=50,alphanumdash"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// CreateAdminRequest represents the one-shot admin bootstrap request
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required" validate:"required,min=1,max=50,alphanumdash"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	UserType  string    `json:"user_type"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

func userDetail(u *models.User) *UserDetail {
	return &UserDetail{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		UserType:  u.UserType,
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// @Summary Login
// @Description Authenticate with email and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	// Sellers cannot log in until an admin approves their shop.
	// Admins are never gated on approval.
	if !user.Approved && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Seller account is pending approval"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, user.UserType)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	s.setSessionCookie(c, token)

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  userDetail(&user),
	})
}

// @Summary Register
// @Description Create a customer or seller account. Accepts JSON or
// @Description multipart form data with an optional shop logo file.
// @Tags auth
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed: " + err.Error()})
		return
	}

	if req.UserType == models.UserTypeSeller && req.ShopName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Shop name is required for seller accounts"})
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check existing users")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email is already registered"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		UserType:     req.UserType,
		// Sellers wait for admin approval before their first login
		Approved: req.UserType != models.UserTypeSeller,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if req.UserType != models.UserTypeSeller {
			return nil
		}

		shop := &models.Shop{
			OwnerID:     user.ID,
			Name:        req.ShopName,
			Description: req.ShopDescription,
			Status:      models.ShopStatusPending,
		}
		if logoPath, err := s.saveShopLogo(c); err != nil {
			return err
		} else if logoPath != "" {
			shop.LogoPath = logoPath
		}
		return tx.Create(shop).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create account")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account"})
		return
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("user_type", user.UserType).
		Msg("Account registered")

	// Registration does not imply an active session: no cookie is set here
	c.JSON(http.StatusCreated, gin.H{"user": userDetail(user)})
}

// saveShopLogo stores the uploaded logo file, if the request carries one,
// and returns its path relative to the upload dir
func (s *Server) saveShopLogo(c *gin.Context) (string, error) {
	file, err := c.FormFile("logo")
	if err != nil {
		// JSON registration or multipart without a logo
		return "", nil
	}

	name := ulid.Make().String() + filepath.Ext(file.Filename)
	dst := filepath.Join(s.config.Server.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return name, nil
}

// @Summary Logout
// @Description Terminate the session and clear the session cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)

	if sessionData, exists := GetSessionData(c); exists {
		s.logger.Info().Str("user_id", sessionData.UserID).Msg("User logged out")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Get current user
// @Description Get information about the currently authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserDetail
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, userDetail(&user))
}

// @Summary Update profile
// @Description Update the authenticated user's profile fields
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed: " + err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	var user models.User
	if err := s.db.Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Password != "" {
		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
			return
		}
		user.PasswordHash = passwordHash
	}

	if err := s.db.Save(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Profile updated")

	c.JSON(http.StatusOK, userDetail(&user))
}

// @Summary Create admin
// @Description One-shot admin bootstrap; refused once an admin exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CreateAdminRequest true "Create admin request"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/auth/create-admin [post]
func (s *Server) createAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed: " + err.Error()})
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count admins")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Admin already exists"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create admin"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		UserType:     models.UserTypeAdmin,
		Approved:     true,
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create admin"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Admin user created")

	c.JSON(http.StatusCreated, gin.H{"user": userDetail(user)})
}

// @Summary List users
// @Description List all users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserDetail
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	userDetails := make([]*UserDetail, len(users))
	for i := range users {
		userDetails[i] = userDetail(&users[i])
	}

	c.JSON(http.StatusOK, userDetails)
}
