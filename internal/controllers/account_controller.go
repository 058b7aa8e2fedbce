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

type AccountController struct {
	accountService services.AccountServiceInterface
	logger         *zap.Logger
}

func NewAccountController(accountService services.AccountServiceInterface, logger *zap.Logger) *AccountController {
	return &AccountController{accountService: accountService, logger: logger}
}

func (c *AccountController) GetAccounts(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	accounts, total, err := c.accountService.GetAccounts(reqCtx, sessionID, filter)
	if err != nil {
		c.logger.Error("failed to list accounts", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, accounts, "Accounts listed", http.StatusOK, total)
}

func (c *AccountController) FindAccount(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	if code == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("account code is required"), c.logger)
	}

	account, err := c.accountService.FindAccount(reqCtx, sessionID, code)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, account, "Account found", http.StatusOK)
}

func (c *AccountController) CreateAccount(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateAccountDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	account, err := c.accountService.CreateAccount(reqCtx, sessionID, payload)
	if err != nil {
		c.logger.Error("failed to create account", zap.Error(err), zap.String("code", payload.Code))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, account, "Account created", http.StatusCreated)
}

func (c *AccountController) UpdateAccount(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	if code == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("account code is required"), c.logger)
	}

	var payload dto.UpdateAccountDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	account, err := c.accountService.UpdateAccount(reqCtx, sessionID, code, payload)
	if err != nil {
		c.logger.Error("failed to update account", zap.Error(err), zap.String("code", code))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, account, "Account updated", http.StatusOK)
}

func (c *AccountController) DeleteAccount(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	if code == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("account code is required"), c.logger)
	}

	if err := c.accountService.DeleteAccount(reqCtx, sessionID, code); err != nil {
		c.logger.Error("failed to delete account", zap.Error(err), zap.String("code", code))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// NextOrder suggests the display order for a new child of the given parent.
func (c *AccountController) NextOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	parentCode := ctx.Param("code")
	if parentCode == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("parent code is required"), c.logger)
	}

	next, err := c.accountService.NextOrder(reqCtx, sessionID, parentCode, ctx.QueryParam("business_unit"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, next, "Next order computed", http.StatusOK)
}

func (c *AccountController) GetTree(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tree, err := c.accountService.GetTree(reqCtx, sessionID,
		ctx.QueryParam("business_unit"), ctx.QueryParam("statement"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, tree, "Account tree built", http.StatusOK)
}

// Validate runs the business rules over the working set and reports violations.
func (c *AccountController) Validate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	violations, err := c.accountService.Validate(reqCtx, sessionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message := "No rule violations"
	if len(violations) > 0 {
		message = "Rule violations found"
	}
	return utils.SuccessResponse(ctx, violations, message, http.StatusOK)
}

func (c *AccountController) BusinessUnits(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	units, err := c.accountService.BusinessUnits(reqCtx, sessionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, units, "Business units listed", http.StatusOK)
}
