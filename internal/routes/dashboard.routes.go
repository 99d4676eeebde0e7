package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Narayanansankar/ParkingDashboard/internal/controllers"
)

func RegisterDashboardRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/parking-data", controllers.GetParkingData)
		api.GET("/map-data", controllers.GetMapData)
		api.GET("/overall-history", controllers.GetOverallHistory)
		api.GET("/parking-lot-history", controllers.GetLotHistory)
		api.GET("/health", controllers.GetHealth)
	}

	r.GET("/ws", controllers.HandleWebSocket)
}
