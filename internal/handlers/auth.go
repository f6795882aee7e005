package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/models"
	"github.com/hackmatch/team-platform/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents registration input
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// Register creates a new account and returns a token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// LoginRequest represents login input
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates and returns a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// TelegramLoginRequest wraps the login-widget payload
type TelegramLoginRequest struct {
	AuthData map[string]string `json:"auth_data" binding:"required"`
}

// TelegramLogin verifies a Telegram widget payload and returns a token,
// creating the user on first login.
func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var req TelegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.TelegramLogin(req.AuthData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// GetCurrentUser returns the authenticated user's full profile
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.Preload("Skills").Preload("Achievements").Preload("Team").
		First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// UpdateProfileRequest carries the patchable profile fields
type UpdateProfileRequest struct {
	Username    *string   `json:"username"`
	Bio         *string   `json:"bio"`
	MainRole    *string   `json:"main_role"`
	ReadyToWork *bool     `json:"ready_to_work"`
	Skills      *[]string `json:"skills"`
}

// UpdateProfile patches the authenticated user's profile. Skills are a
// replace-set: the provided list becomes the user's full skill set.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.MainRole != nil {
		role := models.Role(strings.ToLower(*req.MainRole))
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + *req.MainRole})
			return
		}
		user.MainRole = &role
	}
	if req.ReadyToWork != nil {
		user.ReadyToWork = *req.ReadyToWork
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	if req.Skills != nil {
		skills, err := resolveSkills(*req.Skills)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update skills"})
			return
		}
		if err := db.Model(&user).Association("Skills").Replace(skills); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update skills"})
			return
		}
	}

	if err := db.Preload("Skills").Preload("Achievements").
		First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// resolveSkills maps skill names to rows, creating missing ones. Names are
// stored lowercase so lookups stay case-insensitive.
func resolveSkills(names []string) ([]models.Skill, error) {
	db := database.GetDB()

	seen := make(map[string]bool, len(names))
	skills := make([]models.Skill, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var skill models.Skill
		if err := db.Where("name = ?", name).First(&skill).Error; err != nil {
			skill = models.Skill{Name: name}
			if err := db.Create(&skill).Error; err != nil {
				return nil, err
			}
		}
		skills = append(skills, skill)
	}
	return skills, nil
}
