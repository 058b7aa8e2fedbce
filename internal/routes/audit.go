package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runAuditRouter(secure *echo.Group, ctrl *controllers.AuditController) {
	secure.GET("/audit", ctrl.GetEntries)
	secure.GET("/audit/changes", ctrl.GetChanges)
}
