package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	db "coa-service/internal/infrastructure/bd"
	"coa-service/internal/entities"
	"coa-service/pkg/types"
)

const (
	auditTable  = "audit_log"
	auditFields = "id, session_id, action, code, actor, old_values, new_values, created_at"
)

var auditFilterColumns = map[string]string{
	"code":       "code",
	"action":     "action",
	"session_id": "session_id",
	"created_at": "created_at",
}

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, q Querier, entry entities.AuditEntry) error
	GetEntries(ctx context.Context, filter types.Filter) ([]entities.AuditEntry, uint64, error)
}

type auditRepository struct {
	storage *pgxpool.Pool
	builder sq.StatementBuilderType
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &auditRepository{
		storage: storage,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *auditRepository) Insert(ctx context.Context, q Querier, entry entities.AuditEntry) error {
	oldValues, err := json.Marshal(entry.OldValues)
	if err != nil {
		return fmt.Errorf("marshaling old values: %w", err)
	}
	newValues, err := json.Marshal(entry.NewValues)
	if err != nil {
		return fmt.Errorf("marshaling new values: %w", err)
	}

	query, args, err := r.builder.
		Insert(auditTable).
		Columns("session_id", "action", "code", "actor", "old_values", "new_values").
		Values(entry.SessionID, entry.Action, entry.Code, entry.Actor, oldValues, newValues).
		ToSql()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, query, args...)
	return err
}

func (r *auditRepository) GetEntries(ctx context.Context, filter types.Filter) ([]entities.AuditEntry, uint64, error) {
	countBuilder := r.builder.Select("COUNT(*)").From(auditTable)
	countBuilder = db.ApplyFilters(countBuilder, filter, auditFilterColumns)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditEntry{}, 0, nil
	}

	builder := r.builder.Select(auditFields).From(auditTable)
	builder = db.ApplyFilters(builder, filter, auditFilterColumns)
	builder = db.ApplyListParams(builder, filter, auditFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0)
	for rows.Next() {
		var (
			entry     entities.AuditEntry
			oldValues []byte
			newValues []byte
		)
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Action, &entry.Code, &entry.Actor, &oldValues, &newValues, &entry.Timestamp); err != nil {
			return nil, 0, err
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
				return nil, 0, fmt.Errorf("unmarshaling old values for entry %d: %w", entry.ID, err)
			}
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
				return nil, 0, fmt.Errorf("unmarshaling new values for entry %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}
