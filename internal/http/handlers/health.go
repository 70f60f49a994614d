package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaslearn/atlas-backend/internal/http/response"
	"github.com/atlaslearn/atlas-backend/internal/services"
)

type HealthHandler struct {
	statusService services.StatusService
}

func NewHealthHandler(statusService services.StatusService) *HealthHandler {
	return &HealthHandler{statusService: statusService}
}

func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}

// Status reports per-component health for the backing stores.
func (hh *HealthHandler) Status(c *gin.Context) {
	components := hh.statusService.Status(c.Request.Context())
	overall := "ok"
	for _, comp := range components {
		if comp.Status == "down" {
			overall = "degraded"
		}
	}
	response.RespondOK(c, gin.H{
		"status":     overall,
		"components": components,
	})
}
