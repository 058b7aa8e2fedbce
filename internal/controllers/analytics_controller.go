package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coa-service/internal/services"
	"coa-service/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
	logger           *zap.Logger
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService, logger: logger}
}

func (c *AnalyticsController) Overview(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	overview, err := c.analyticsService.Overview(reqCtx, sessionID, ctx.QueryParam("business_unit"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, overview, "Analytics overview", http.StatusOK)
}

func (c *AnalyticsController) Insights(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	insights, err := c.analyticsService.Insights(reqCtx, sessionID, ctx.QueryParam("business_unit"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, insights, "Analytics insights", http.StatusOK)
}
