package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/apperr"
)

// respondError writes a typed operation error as JSON. State errors carry
// the request's current status so the caller can see what it holds now.
func respondError(c *gin.Context, err *apperr.Error) {
	body := gin.H{"error": err.Message}
	if err.Kind == apperr.KindState && err.CurrentStatus != "" {
		body["current_status"] = err.CurrentStatus
	}
	c.JSON(err.HTTPStatus(), body)
}

// pathUUID parses a :param path segment as a UUID, writing a 400 itself on
// failure. The bool reports whether parsing succeeded.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
