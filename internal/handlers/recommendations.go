package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/apperr"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/services"
)

type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// RecommendRequest selects the matching direction: "team" ranks teams for
// the caller, "user" ranks participants for the caller's captained team.
type RecommendRequest struct {
	ForWhat string `json:"for_what" binding:"required,oneof=team user"`
	services.RecommendationInput
}

// Recommend runs the matcher in the requested direction
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.HackathonID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id is required"})
		return
	}

	var (
		recs   []services.Recommendation
		appErr *apperr.Error
	)
	switch req.ForWhat {
	case "team":
		recs, appErr = h.recommendations.RecommendTeams(userID, req.RecommendationInput)
	case "user":
		recs, appErr = h.recommendations.RecommendUsers(userID, req.RecommendationInput)
	}
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"total_found":     len(recs),
	})
}

// RecommendForTeam ranks open participants for one team. Captain only.
func (h *RecommendationHandler) RecommendForTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var in services.RecommendationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs, appErr := h.recommendations.RecommendForTeam(userID, teamID, in)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"total_found":     len(recs),
	})
}

// Stats reports aggregate platform counters plus the caller's captained team
func (h *RecommendationHandler) Stats(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	stats, appErr := h.recommendations.Stats(userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, stats)
}
