package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/services"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/utils"
)

type TransformController struct {
	transformService services.TransformServiceInterface
	logger           *zap.Logger
}

func NewTransformController(transformService services.TransformServiceInterface, logger *zap.Logger) *TransformController {
	return &TransformController{transformService: transformService, logger: logger}
}

// Transform runs the COA enrichment pipeline over the working set.
func (c *TransformController) Transform(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.TransformRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}

	result, err := c.transformService.Transform(reqCtx, sessionID, payload.BusinessUnit)
	if err != nil {
		c.logger.Error("transform failed", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Transform finished", http.StatusOK)
}

// SubunitCOA cross-joins the enriched COA with the unit's subunits.
func (c *TransformController) SubunitCOA(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SubunitCOARequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.transformService.SubunitCOA(reqCtx, sessionID, payload.BusinessUnit)
	if err != nil {
		c.logger.Error("subunit cross-join failed", zap.Error(err), zap.String("business_unit", payload.BusinessUnit))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Subunit COA built", http.StatusOK)
}

// CentralMapping emits central-COA mapping rows for the unit.
func (c *TransformController) CentralMapping(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CentralMappingRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.transformService.CentralMapping(reqCtx, sessionID, payload.BusinessUnit)
	if err != nil {
		c.logger.Error("central mapping failed", zap.Error(err), zap.String("business_unit", payload.BusinessUnit))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Central mapping built", http.StatusOK)
}

// CountCheck reconciles working-set rows against the pipeline output.
func (c *TransformController) CountCheck(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.transformService.CountCheck(reqCtx, sessionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Count check finished", http.StatusOK)
}
