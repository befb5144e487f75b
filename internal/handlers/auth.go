package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/viveksanandiya/pdf-annotator/internal/middleware"
	"github.com/viveksanandiya/pdf-annotator/internal/models"
	"github.com/viveksanandiya/pdf-annotator/pkg/logger"
	"github.com/viveksanandiya/pdf-annotator/pkg/utils"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Email and password are required")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid email address")
	}
	if len(req.Password) < 6 {
		return utils.Error(c, fiber.StatusBadRequest, "Password must be at least 6 characters long")
	}

	var existing models.User
	if err := h.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		// Duplicate email stays a 400, matching the published contract.
		return utils.Error(c, fiber.StatusBadRequest, "User already exists with this email")
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "Server error during signup")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Server error during signup")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Server error during signup")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Server error during signup")
	}

	logger.Info("user_signed_up", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	return utils.JSON(c, fiber.StatusCreated, fiber.Map{
		"token":   token,
		"user":    userPayload(&user),
		"message": "Account created successfully",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Email and password are required")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		logger.Warn("login_failed_unknown_email", map[string]interface{}{
			"email": req.Email,
			"ip":    c.IP(),
		})
		return utils.Error(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.WarnWithUser(user.ID.String(), "login_failed_bad_password", map[string]interface{}{
			"ip": c.IP(),
		})
		return utils.Error(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Server error during login")
	}

	logger.InfoWithUser(user.ID.String(), "user_login", map[string]interface{}{
		"ip": c.IP(),
	})

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"token":   token,
		"user":    userPayload(&user),
		"message": "Login successful",
	})
}

// Verify resolves the caller's token to their identity. The auth middleware
// has already rejected missing and invalid tokens by the time this runs.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid token")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"user": userPayload(user),
	})
}
