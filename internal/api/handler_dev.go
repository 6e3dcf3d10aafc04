package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type generateDataRequest struct {
	PetID    string `json:"petId"`
	Days     int    `json:"days"`
	DataType string `json:"dataType"`
}

// GenerateData handles POST /api/dev/generate-data. It seeds synthetic
// telemetry for development and is a hard no-op in production.
func (h *Handler) GenerateData(c *gin.Context) {
	if h.cfg.IsProduction() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Development routes are only available in non-production environments",
		})
		return
	}

	var req generateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.PetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Pet ID is required"})
		return
	}
	if req.DataType == "" {
		req.DataType = "activity"
	}

	var (
		count int
		err   error
	)
	switch req.DataType {
	case "activity":
		if req.Days <= 0 {
			req.Days = 30
		}
		count, err = h.generator.GenerateActivityData(c.Request.Context(), req.PetID, req.Days)
	case "sleep":
		if req.Days <= 0 {
			req.Days = 7
		}
		count, err = h.generator.GenerateSleepData(c.Request.Context(), req.PetID, req.Days)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported data type"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error generating test data",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"count": count},
		"message": "Successfully generated " + req.DataType + " data",
	})
}
