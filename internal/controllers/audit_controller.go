package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"coa-service/internal/services"
	"coa-service/pkg/utils"
)

type AuditController struct {
	auditService services.AuditServiceInterface
	logger       *zap.Logger
}

func NewAuditController(auditService services.AuditServiceInterface, logger *zap.Logger) *AuditController {
	return &AuditController{auditService: auditService, logger: logger}
}

// GetEntries lists the durable audit trail across sessions.
func (c *AuditController) GetEntries(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := utils.SessionIDFromContext(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	entries, total, err := c.auditService.GetEntries(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, entries, "Audit entries listed", http.StatusOK, total)
}

// GetChanges lists the current session's change journal.
func (c *AuditController) GetChanges(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	changes, err := c.auditService.GetChanges(reqCtx, sessionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, changes, "Session changes listed", http.StatusOK)
}
