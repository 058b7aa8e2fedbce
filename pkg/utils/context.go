package utils

import (
	"context"

	"coa-service/pkg/contextkeys"
	apperrors "coa-service/pkg/errors"
)

// SessionIDFromContext extracts the session id placed by the session middleware.
func SessionIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextkeys.SessionIDKey).(string)
	if !ok || id == "" {
		return "", apperrors.ErrSessionIDNotInContext
	}
	return id, nil
}
