package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/models"
)

type HackathonHandler struct{}

func NewHackathonHandler() *HackathonHandler {
	return &HackathonHandler{}
}

// CreateHackathonRequest is the event creation input
type CreateHackathonRequest struct {
	Title                string    `json:"title" binding:"required"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	StartDate            time.Time `json:"start_date" binding:"required"`
	EndDate              time.Time `json:"end_date" binding:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline" binding:"required"`
	LogoURL              string    `json:"logo_url"`
}

// CreateHackathon registers a new event
func (h *HackathonHandler) CreateHackathon(c *gin.Context) {
	var req CreateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hackathon := models.Hackathon{
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		LogoURL:              req.LogoURL,
		IsActive:             true,
	}
	if !hackathon.ValidDates() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration deadline must not be after start, and start must precede end"})
		return
	}

	db := database.GetDB()
	if err := db.Create(&hackathon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hackathon"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hackathon": hackathon})
}

// GetHackathon returns one event
func (h *HackathonHandler) GetHackathon(c *gin.Context) {
	hackathonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hackathon not found"})
		return
	}

	var teamCount int64
	db.Model(&models.Team{}).Where("hackathon_id = ?", hackathonID).Count(&teamCount)

	c.JSON(http.StatusOK, gin.H{
		"hackathon":  hackathon,
		"team_count": teamCount,
	})
}

// ListHackathons returns events, optionally only active ones
func (h *HackathonHandler) ListHackathons(c *gin.Context) {
	db := database.GetDB()

	q := db.Model(&models.Hackathon{})
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_active"})
			return
		}
		q = q.Where("is_active = ?", active)
	}
	if raw := c.Query("upcoming"); raw == "true" {
		q = q.Where("start_date > ?", time.Now())
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var hackathons []models.Hackathon
	if err := q.Offset(skip).Limit(limit).Order("start_date ASC").Find(&hackathons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list hackathons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hackathons": hackathons,
		"count":      len(hackathons),
	})
}

// UpdateHackathonRequest carries the patchable event fields
type UpdateHackathonRequest struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	Location             *string    `json:"location"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	LogoURL              *string    `json:"logo_url"`
	IsActive             *bool      `json:"is_active"`
}

// UpdateHackathon patches event metadata, re-validating the date ordering
func (h *HackathonHandler) UpdateHackathon(c *gin.Context) {
	hackathonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hackathon not found"})
		return
	}

	if req.Title != nil {
		hackathon.Title = *req.Title
	}
	if req.Description != nil {
		hackathon.Description = *req.Description
	}
	if req.Location != nil {
		hackathon.Location = *req.Location
	}
	if req.StartDate != nil {
		hackathon.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		hackathon.EndDate = *req.EndDate
	}
	if req.RegistrationDeadline != nil {
		hackathon.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.LogoURL != nil {
		hackathon.LogoURL = *req.LogoURL
	}
	if req.IsActive != nil {
		hackathon.IsActive = *req.IsActive
	}

	if !hackathon.ValidDates() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration deadline must not be after start, and start must precede end"})
		return
	}

	if err := db.Save(&hackathon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hackathon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hackathon": hackathon})
}

// DeleteHackathon removes an event
func (h *HackathonHandler) DeleteHackathon(c *gin.Context) {
	hackathonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hackathon not found"})
		return
	}

	if err := db.Delete(&hackathon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hackathon"})
		return
	}

	c.Status(http.StatusNoContent)
}
