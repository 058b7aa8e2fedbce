package routes

import (
	"github.com/labstack/echo/v4"

	"coa-service/internal/controllers"
)

func runAccountRouter(secure *echo.Group, ctrl *controllers.AccountController) {
	secure.GET("/accounts", ctrl.GetAccounts)
	secure.GET("/accounts/tree", ctrl.GetTree)
	secure.POST("/accounts/validate", ctrl.Validate)
	secure.GET("/accounts/:code", ctrl.FindAccount)
	secure.GET("/accounts/:code/next-order", ctrl.NextOrder)
	secure.POST("/accounts", ctrl.CreateAccount)
	secure.PUT("/accounts/:code", ctrl.UpdateAccount)
	secure.DELETE("/accounts/:code", ctrl.DeleteAccount)
}
