package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tagcly-telemetry-backend/internal/trend"
)

// GetActivityTrends handles GET /api/pets/{petId}/activity.
func (h *Handler) GetActivityTrends(c *gin.Context) {
	petID := c.Param("petId")

	days, ok := daysParam(c, 7, 365)
	if !ok {
		return
	}
	resolution, err := trend.ParseResolution(c.Query("resolution"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	readings, err := h.store.ReadingsSince(c.Request.Context(), petID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to retrieve activity data"})
		return
	}

	result, err := h.activity.Analyze(readings, resolution)
	if err != nil {
		if errors.Is(err, trend.ErrNoData) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "No valid activity data with intensity values found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error analyzing activity trends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Activity trends analyzed successfully",
	})
}

// GetSleepTrends handles GET /api/pets/{petId}/sleep.
func (h *Handler) GetSleepTrends(c *gin.Context) {
	petID := c.Param("petId")

	days, ok := daysParam(c, 7, 30)
	if !ok {
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	sessions, err := h.store.SleepSessionsSince(c.Request.Context(), petID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to retrieve sleep data"})
		return
	}

	result, err := h.sleep.Analyze(sessions)
	if err != nil {
		if errors.Is(err, trend.ErrNoData) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "No valid sleep data found for this pet",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error analyzing sleep patterns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Sleep metrics retrieved successfully",
	})
}
