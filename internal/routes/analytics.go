package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runAnalyticsRouter(secure *echo.Group, ctrl *controllers.AnalyticsController) {
	secure.GET("/analytics/overview", ctrl.Overview)
	secure.GET("/analytics/insights", ctrl.Insights)
}
