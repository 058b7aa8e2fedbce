package middleware

import (
	"context"
	"net/http"
	"strings"

	"coa-service/pkg/contextkeys"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/service"
	"coa-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SessionMiddleware struct {
	tokenService service.TokenService
	logger       *zap.Logger
}

func NewSessionMiddleware(tokenSvc service.TokenService, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		tokenService: tokenSvc,
		logger:       logger,
	}
}

// Session resolves the Bearer token into a session id and puts it on the
// request context; all working-set endpoints run behind it.
func (m *SessionMiddleware) Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("SessionMiddleware: empty Authorization header")
			return utils.ErrorResponse(c,
				apperrors.NewHttpError(http.StatusUnauthorized, "session token required", apperrors.ErrEmptyAuthHeader, nil),
				m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("SessionMiddleware: malformed Authorization header")
			return utils.ErrorResponse(c,
				apperrors.NewHttpError(http.StatusUnauthorized, "malformed authorization header", apperrors.ErrInvalidAuthHeader, nil),
				m.logger)
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("SessionMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c,
				apperrors.NewHttpError(http.StatusUnauthorized, "invalid session token", err, nil),
				m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.SessionIDKey, claims.SessionID)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
