package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/models"
	"github.com/hackmatch/team-platform/internal/services"
)

type TeamHandler struct {
	membership *services.MembershipService
}

func NewTeamHandler(membership *services.MembershipService) *TeamHandler {
	return &TeamHandler{membership: membership}
}

// CreateTeam registers a team with the authenticated user as captain
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var in services.CreateTeamInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, appErr := h.membership.CreateTeam(userID, in)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": team.ToResponse()})
}

// GetTeam returns a team with its captain and member roster
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var team models.Team
	if err := db.Preload("Captain").Preload("Members").Preload("Members.Skills").
		First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	members := make([]models.UserResponse, 0, len(team.Members))
	for i := range team.Members {
		members = append(members, team.Members[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"team":    team.ToResponse(),
		"members": members,
	})
}

// ListTeams returns teams, optionally scoped to a hackathon or filtered to
// teams still recruiting
func (h *TeamHandler) ListTeams(c *gin.Context) {
	db := database.GetDB()

	q := db.Preload("Members")
	if raw := c.Query("hackathon_id"); raw != "" {
		hackathonID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hackathon_id"})
			return
		}
		q = q.Where("hackathon_id = ?", hackathonID)
	}
	if raw := c.Query("is_looking"); raw != "" {
		looking, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_looking"})
			return
		}
		q = q.Where("is_looking = ?", looking)
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var teams []models.Team
	if err := q.Offset(skip).Limit(limit).Order("created_at DESC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list teams"})
		return
	}

	responses := make([]models.TeamResponse, 0, len(teams))
	for i := range teams {
		responses = append(responses, teams[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": responses,
		"count": len(responses),
	})
}

// UpdateTeamRequest carries the patchable team fields
type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ChatLink    *string `json:"chat_link"`
	IsLooking   *bool   `json:"is_looking"`
}

// UpdateTeam patches team metadata. Captain only.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	if team.CaptainID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team captain can update the team"})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team name cannot be empty"})
			return
		}
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.ChatLink != nil {
		team.ChatLink = *req.ChatLink
	}
	if req.IsLooking != nil {
		team.IsLooking = *req.IsLooking
	}

	if err := db.Save(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team.ToResponse()})
}

// DissolveTeam deletes the team and releases its members. Captain only.
func (h *TeamHandler) DissolveTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if appErr := h.membership.DissolveTeam(userID, teamID); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinTeam files a pending join request against the team
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	req, appErr := h.membership.SendJoinRequest(userID, teamID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// LeaveTeam removes the authenticated user from the team roster
func (h *TeamHandler) LeaveTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if appErr := h.membership.LeaveTeam(userID, teamID); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

// KickMember removes another member from the roster. Captain only.
func (h *TeamHandler) KickMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	if appErr := h.membership.KickMember(userID, teamID, targetID); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// InviteToTeam files a pending invite for the target user. Captain only.
func (h *TeamHandler) InviteToTeam(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	req, appErr := h.membership.InviteToTeam(userID, teamID, targetID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// ListTeamRequests returns the team's pending requests. Captain only.
func (h *TeamHandler) ListTeamRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	requests, appErr := h.membership.TeamRequests(userID, teamID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// RespondRequest is the accept/decline action body
type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// RespondToRequest resolves a pending team request. Captains answer join
// requests, invited users answer invites, and the initiator may decline
// their own request to withdraw it.
func (h *TeamHandler) RespondToRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	requestID, ok := pathUUID(c, "requestID")
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if appErr := h.membership.RespondToTeamRequest(userID, teamID, requestID, req.Action == "accept"); appErr != nil {
		respondError(c, appErr)
		return
	}

	status := "declined"
	if req.Action == "accept" {
		status = "accepted"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
