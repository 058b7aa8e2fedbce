package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runSessionRouter(public *echo.Group, secure *echo.Group, ctrl *controllers.SessionController) {
	// Opening a session is the only unauthenticated operation.
	public.POST("/sessions", ctrl.OpenSession)

	secure.GET("/sessions/current", ctrl.CurrentSession)
	secure.POST("/sessions/current/save", ctrl.SaveSession)
	secure.POST("/sessions/current/refresh", ctrl.RefreshSession)
	secure.DELETE("/sessions/current", ctrl.CloseSession)
}
