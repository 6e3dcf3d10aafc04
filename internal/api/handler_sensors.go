package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tagcly-telemetry-backend/internal/telemetry"
)

// PostSensorReading handles POST /api/sensors: the synchronous HTTP twin of
// the MQTT ingest path.
func (h *Handler) PostSensorReading(c *gin.Context) {
	var raw telemetry.RawReading
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if _, err := h.ingestor.Ingest(c.Request.Context(), raw); err != nil {
		var validationErr *telemetry.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Data saved successfully"})
}

// GetReadings handles GET /api/pets/{petId}/readings, returning a pet's raw
// readings newest first, optionally bounded by start/end, capped at 100 rows.
func (h *Handler) GetReadings(c *gin.Context) {
	petID := c.Param("petId")

	var start, end *time.Time
	startParam := c.Query("start")
	endParam := c.Query("end")
	if startParam != "" && endParam != "" {
		s, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' timestamp, use RFC3339"})
			return
		}
		e, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'end' timestamp, use RFC3339"})
			return
		}
		start, end = &s, &e
	}

	readings, err := h.store.RecentReadings(c.Request.Context(), petID, start, end, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve readings"})
		return
	}
	c.JSON(http.StatusOK, readings)
}

// daysParam parses and bounds the "days" query parameter.
func daysParam(c *gin.Context, def, max int) (int, bool) {
	raw := c.DefaultQuery("days", strconv.Itoa(def))
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > max {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "'days' must be an integer between 1 and " + strconv.Itoa(max),
		})
		return 0, false
	}
	return days, true
}
