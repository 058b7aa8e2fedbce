package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"coa-service/internal/entities"
	"coa-service/internal/repositories"
)

// JournalInterface records one edit into both the durable audit trail and the
// per-session change journal.
type JournalInterface interface {
	Record(ctx context.Context, sessionID, action string, account entities.Account,
		oldValues, newValues map[string]interface{}) error
}

type journal struct {
	pool       *pgxpool.Pool
	auditRepo  repositories.AuditRepositoryInterface
	changeRepo repositories.ChangeRepositoryInterface
	logger     *zap.Logger
}

func NewJournal(
	pool *pgxpool.Pool,
	auditRepo repositories.AuditRepositoryInterface,
	changeRepo repositories.ChangeRepositoryInterface,
	logger *zap.Logger,
) JournalInterface {
	return &journal{pool: pool, auditRepo: auditRepo, changeRepo: changeRepo, logger: logger}
}

// Record writes the audit entry and the delta row in one transaction so the
// two histories cannot drift apart.
func (j *journal) Record(ctx context.Context, sessionID, action string, account entities.Account,
	oldValues, newValues map[string]interface{}) error {

	entry := entities.AuditEntry{
		SessionID: sessionID,
		Action:    action,
		Code:      account.Code,
		Actor:     "session:" + sessionID,
		OldValues: oldValues,
		NewValues: newValues,
	}
	record := entities.ChangeRecord{
		SessionID: sessionID,
		Action:    action,
		Account:   account,
	}

	err := repositories.WithTx(ctx, j.pool, func(tx pgx.Tx) error {
		if err := j.auditRepo.Insert(ctx, tx, entry); err != nil {
			return err
		}
		return j.changeRepo.Insert(ctx, tx, record)
	})
	if err != nil {
		j.logger.Error("failed to journal change",
			zap.String("session_id", sessionID),
			zap.String("action", action),
			zap.String("code", account.Code),
			zap.Error(err),
		)
	}
	return err
}
