package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coa-service/internal/services"
	"coa-service/pkg/utils"
)

type SubunitController struct {
	subunitService services.SubunitServiceInterface
	logger         *zap.Logger
}

func NewSubunitController(subunitService services.SubunitServiceInterface, logger *zap.Logger) *SubunitController {
	return &SubunitController{subunitService: subunitService, logger: logger}
}

func (c *SubunitController) GetSubunits(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := utils.SessionIDFromContext(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if ctx.QueryParam("refresh") == "true" {
		if err := c.subunitService.Refresh(reqCtx); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	subunits, err := c.subunitService.GetSubunits(reqCtx, ctx.QueryParam("business_unit"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, subunits, "Business subunits listed", http.StatusOK)
}
