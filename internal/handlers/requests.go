package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hackmatch/team-platform/internal/middleware"
	"github.com/hackmatch/team-platform/internal/models"
	"github.com/hackmatch/team-platform/internal/services"
)

type RequestHandler struct {
	membership *services.MembershipService
}

func NewRequestHandler(membership *services.MembershipService) *RequestHandler {
	return &RequestHandler{membership: membership}
}

// CreateRequest records a new pending request from the authenticated user
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var in services.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, appErr := h.membership.CreateRequest(userID, in)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// AcceptRequest moves a pending request to accepted and applies its effects
func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	requestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	req, appErr := h.membership.AcceptRequest(requestID, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// DeclineRequest moves a pending request to declined
func (h *RequestHandler) DeclineRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	requestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	req, appErr := h.membership.DeclineRequest(requestID, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// CancelRequest lets the sender withdraw a pending request
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	requestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if appErr := h.membership.CancelRequest(requestID, userID); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.Status(http.StatusNoContent)
}

// listInput reads the shared status/type/pagination query parameters. A bad
// status or type value is a 400, not an empty result.
func listInput(c *gin.Context) (services.ListRequestsInput, bool) {
	var in services.ListRequestsInput

	if raw := c.Query("status"); raw != "" {
		status := models.RequestStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + raw})
			return in, false
		}
		in.Status = &status
	}
	if raw := c.Query("request_type"); raw != "" {
		reqType := models.RequestType(raw)
		if !reqType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request type: " + raw})
			return in, false
		}
		in.Type = &reqType
	}
	in.Offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	in.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	return in, true
}

// ListSent returns requests the authenticated user has sent
func (h *RequestHandler) ListSent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	in, ok := listInput(c)
	if !ok {
		return
	}

	requests, appErr := h.membership.ListSent(userID, in)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// ListReceived returns requests addressed to the user directly or to teams
// they captain
func (h *RequestHandler) ListReceived(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	in, ok := listInput(c)
	if !ok {
		return
	}

	requests, appErr := h.membership.ListReceived(userID, in)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}
