package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Narayanansankar/ParkingDashboard/internal/services"
)

// GetParkingData returns the full dashboard view for one locale.
// Query params: lang=en|ta (default from config)
func GetParkingData(c *gin.Context) {
	locale := c.Query("lang")
	view := services.CurrentDashboard(locale)
	c.JSON(http.StatusOK, view)
}

// GetMapData returns every lot with its coordinates and in/out flow
// counts for the map page.
// Query params: lang=en|ta (default from config)
func GetMapData(c *gin.Context) {
	view := services.CurrentMapView(c.Query("lang"))
	c.JSON(http.StatusOK, view)
}

// GetHealth is the liveness probe.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
