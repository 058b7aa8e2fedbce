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

type SessionController struct {
	sessionService services.SessionServiceInterface
	logger         *zap.Logger
}

func NewSessionController(sessionService services.SessionServiceInterface, logger *zap.Logger) *SessionController {
	return &SessionController{sessionService: sessionService, logger: logger}
}

// OpenSession loads the master table into a fresh working copy and returns
// the session token.
func (c *SessionController) OpenSession(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	session, err := c.sessionService.Open(reqCtx)
	if err != nil {
		c.logger.Error("failed to open session", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, session, "Session opened", http.StatusCreated)
}

func (c *SessionController) CurrentSession(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	session, err := c.sessionService.Current(reqCtx, sessionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, session, "Session state", http.StatusOK)
}

// SaveSession writes the working copy back to the master table.
func (c *SessionController) SaveSession(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.sessionService.Save(reqCtx, sessionID)
	if err != nil {
		c.logger.Error("failed to save session", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Working copy saved to master table", http.StatusOK)
}

// RefreshSession discards the working copy and reloads it from the master.
func (c *SessionController) RefreshSession(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RefreshSessionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}

	session, err := c.sessionService.Refresh(reqCtx, sessionID, payload.Force)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, session, "Working copy reloaded", http.StatusOK)
}

func (c *SessionController) CloseSession(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.sessionService.Close(reqCtx, sessionID); err != nil {
		c.logger.Error("failed to close session", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.NoContent(http.StatusNoContent)
}
