package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runTransformRouter(secure *echo.Group, ctrl *controllers.TransformController) {
	secure.POST("/transform", ctrl.Transform)
	secure.POST("/transform/subunit-coa", ctrl.SubunitCOA)
	secure.POST("/transform/central-mapping", ctrl.CentralMapping)
	secure.GET("/transform/count-check", ctrl.CountCheck)
}
