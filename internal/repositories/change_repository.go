package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"coa-service/internal/entities"
)

const (
	changeTable  = "session_changes"
	changeFields = "id, session_id, action, business_unit, num_fin_stat_order, code, name, parent_code, type_account, type_fin_statement, name_eng, central_code, created_at"
)

type ChangeRepositoryInterface interface {
	Insert(ctx context.Context, q Querier, record entities.ChangeRecord) error
	GetBySession(ctx context.Context, sessionID string) ([]entities.ChangeRecord, error)
}

type changeRepository struct {
	storage *pgxpool.Pool
	builder sq.StatementBuilderType
}

func NewChangeRepository(storage *pgxpool.Pool) ChangeRepositoryInterface {
	return &changeRepository{
		storage: storage,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *changeRepository) Insert(ctx context.Context, q Querier, record entities.ChangeRecord) error {
	a := record.Account
	query, args, err := r.builder.
		Insert(changeTable).
		Columns("session_id", "action", "business_unit", "num_fin_stat_order", "code", "name",
			"parent_code", "type_account", "type_fin_statement", "name_eng", "central_code").
		Values(record.SessionID, record.Action, a.BusinessUnit, a.Order, a.Code, a.Name,
			nullIfEmpty(a.ParentCode), a.AccountType, a.StatementType, nullIfEmpty(a.NameEng), nullIfEmpty(a.CentralCode)).
		ToSql()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, query, args...)
	return err
}

func (r *changeRepository) GetBySession(ctx context.Context, sessionID string) ([]entities.ChangeRecord, error) {
	query, args, err := r.builder.
		Select(changeFields).
		From(changeTable).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]entities.ChangeRecord, 0)
	for rows.Next() {
		var (
			rec        entities.ChangeRecord
			order      *int
			parentCode *string
			nameEng    *string
			central    *string
			createdAt  time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Action, &rec.Account.BusinessUnit, &order,
			&rec.Account.Code, &rec.Account.Name, &parentCode, &rec.Account.AccountType,
			&rec.Account.StatementType, &nameEng, &central, &createdAt); err != nil {
			return nil, err
		}
		rec.Timestamp = createdAt
		rec.Account.Order = order
		if parentCode != nil {
			rec.Account.ParentCode = *parentCode
		}
		if nameEng != nil {
			rec.Account.NameEng = *nameEng
		}
		if central != nil {
			rec.Account.CentralCode = *central
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
