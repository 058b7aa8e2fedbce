package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runSubunitRouter(secure *echo.Group, account *controllers.AccountController, subunit *controllers.SubunitController) {
	secure.GET("/business-units", account.BusinessUnits)
	secure.GET("/business-subunits", subunit.GetSubunits)
}
