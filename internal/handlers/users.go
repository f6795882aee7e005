package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/models"
	"github.com/hackmatch/team-platform/internal/services"
)

type UserHandler struct {
	portfolio *services.PortfolioService
}

func NewUserHandler(portfolio *services.PortfolioService) *UserHandler {
	return &UserHandler{portfolio: portfolio}
}

// ListUsers returns participants, filterable by role and by the hackathon
// their team belongs to
func (h *UserHandler) ListUsers(c *gin.Context) {
	db := database.GetDB()

	q := db.Model(&models.User{}).Preload("Skills")
	if raw := c.Query("role"); raw != "" {
		role := models.Role(strings.ToLower(raw))
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + raw})
			return
		}
		q = q.Where("main_role = ?", role)
	}
	if raw := c.Query("ready_to_work"); raw != "" {
		ready, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ready_to_work"})
			return
		}
		q = q.Where("ready_to_work = ?", ready)
	}
	if raw := c.Query("hackathon_id"); raw != "" {
		hackathonID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hackathon_id"})
			return
		}
		q = q.Joins("JOIN teams ON teams.id = users.team_id").
			Where("teams.hackathon_id = ?", hackathonID)
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var users []models.User
	if err := q.Offset(skip).Limit(limit).Order("users.created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"count": len(responses),
	})
}

// GetUser returns one participant's profile with skills and achievements
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
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

// GetUserSkills returns the participant's skill names
func (h *UserHandler) GetUserSkills(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.Preload("Skills").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	names := make([]string, 0, len(user.Skills))
	for _, skill := range user.Skills {
		names = append(names, skill.Name)
	}

	c.JSON(http.StatusOK, gin.H{"skills": names})
}

// ListAchievements returns a participant's hackathon results, newest year
// first
func (h *UserHandler) ListAchievements(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var achievements []models.Achievement
	if err := db.Where("user_id = ?", userID).Order("year DESC, created_at DESC").
		Find(&achievements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": achievements,
		"count":        len(achievements),
	})
}

// AddAchievementRequest is a past hackathon result
type AddAchievementRequest struct {
	HackathonName string `json:"hackathon_name" binding:"required"`
	Place         *int   `json:"place"`
	TeamName      string `json:"team_name"`
	ProjectLink   string `json:"project_link"`
	Year          int    `json:"year" binding:"required"`
	Description   string `json:"description"`
}

// AddAchievement records a hackathon result on the authenticated user's own
// profile
func (h *UserHandler) AddAchievement(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if actorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only add achievements to your own profile"})
		return
	}

	var req AddAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Year < 2000 || req.Year > time.Now().Year() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	if req.Place != nil && *req.Place < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Place must be positive"})
		return
	}

	achievement := models.Achievement{
		UserID:        userID,
		HackathonName: req.HackathonName,
		Place:         req.Place,
		TeamName:      req.TeamName,
		ProjectLink:   req.ProjectLink,
		Year:          req.Year,
		Description:   req.Description,
	}

	db := database.GetDB()
	if err := db.Create(&achievement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add achievement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"achievement": achievement})
}

// DeleteUser removes the authenticated user's own account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if actorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own account"})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadPortfolio renders the participant's profile as a PDF attachment
func (h *UserHandler) DownloadPortfolio(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.Preload("Skills").Preload("Achievements").
		First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	path, err := h.portfolio.GeneratePortfolioPDF(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate portfolio"})
		return
	}

	c.FileAttachment(path, fmt.Sprintf("portfolio_%s.pdf", user.Username))
}
