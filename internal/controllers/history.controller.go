package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/services"
)

// GetOverallHistory returns the fleet-wide vehicle-count datasets for
// the trailing window, as maintained by the periodic history loop.
func GetOverallHistory(c *gin.Context) {
	datasets, errMsg := services.OverallHistory(c.Request.Context())
	if datasets == nil && errMsg != "" {
		c.JSON(http.StatusBadGateway, errorResponse("History data source not available"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// GetLotHistory returns one lot's occupancy-over-time datasets.
// Query params: id=<lotId> (required), lang=en|ta for the error text.
// A failed fetch answers with the literal message the dialog shows in
// place of the chart; the dashboard view is never touched.
func GetLotHistory(c *gin.Context) {
	lotID := strings.ToLower(strings.TrimSpace(c.Query("id")))
	if lotID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Missing 'id' parameter"))
		return
	}

	collector := services.GetSnapshotCollector()
	if collector != nil {
		if _, known := collector.LotName(lotID, "en"); !known && collector.Snapshot() != nil {
			c.JSON(http.StatusNotFound, errorResponse("unknown parking lot: "+lotID))
			return
		}
	}

	history, installed, err := services.LoadLotHistory(c.Request.Context(), lotID)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse(services.HistoryErrorMessage(c.Query("lang"))))
		return
	}
	if !installed {
		// a newer dialog request superseded this one; the caller that
		// asked still gets its data, the shared slot keeps the newer lot
		log.Debug().Str("lot_id", lotID).Msg("serving superseded lot history to its own requester")
	}
	c.JSON(http.StatusOK, history)
}
