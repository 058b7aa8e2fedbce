package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runImportExportRouter(secure *echo.Group, ctrl *controllers.ImportExportController) {
	secure.GET("/export/excel", ctrl.ExportExcel)
	secure.GET("/export/csv", ctrl.ExportCSV)
	secure.GET("/export/json", ctrl.ExportJSON)
	secure.POST("/import/excel", ctrl.ImportExcel)
	secure.GET("/import/template", ctrl.Template)
}
