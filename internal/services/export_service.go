package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/repositories"
	apperrors "coa-service/pkg/errors"
)

type ExportServiceInterface interface {
	ExportRows(ctx context.Context, sessionID, businessUnit string, columns []string) ([]string, [][]string, error)
	TemplateRows(req dto.TemplateRequestDTO) ([]string, [][]string)
	Import(ctx context.Context, sessionID string, records []map[string]string, mode string) (*dto.ImportResultDTO, error)
}

type ExportService struct {
	wsRepo  repositories.WorkingSetRepositoryInterface
	journal JournalInterface
	logger  *zap.Logger
}

func NewExportService(
	wsRepo repositories.WorkingSetRepositoryInterface,
	journal JournalInterface,
	logger *zap.Logger,
) ExportServiceInterface {
	return &ExportService{wsRepo: wsRepo, journal: journal, logger: logger}
}

// ExportRows renders the working set in the canonical column order, sorted by
// statement type then display order. A non-empty columns list restricts the
// output to that subset, in the requested order.
func (s *ExportService) ExportRows(ctx context.Context, sessionID, businessUnit string, columns []string) ([]string, [][]string, error) {
	indexes, header, err := columnSubset(columns)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := s.wsRepo.GetAccounts(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if businessUnit != "" {
		scoped := make([]entities.Account, 0, len(accounts))
		for _, a := range accounts {
			if a.BusinessUnit == businessUnit {
				scoped = append(scoped, a)
			}
		}
		accounts = scoped
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].StatementType != accounts[j].StatementType {
			return accounts[i].StatementType < accounts[j].StatementType
		}
		return lessByOrder(accounts[i], accounts[j])
	})

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		full := accountToRow(a)
		row := make([]string, len(indexes))
		for i, idx := range indexes {
			row[i] = full[idx]
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// columnSubset resolves requested column names against the platform schema.
// An empty request selects every column.
func columnSubset(columns []string) ([]int, []string, error) {
	if len(columns) == 0 {
		indexes := make([]int, len(entities.AccountColumns))
		for i := range indexes {
			indexes[i] = i
		}
		return indexes, entities.AccountColumns, nil
	}

	position := make(map[string]int, len(entities.AccountColumns))
	for i, name := range entities.AccountColumns {
		position[name] = i
	}

	indexes := make([]int, 0, len(columns))
	header := make([]string, 0, len(columns))
	for _, raw := range columns {
		name := strings.ToUpper(strings.TrimSpace(raw))
		idx, ok := position[name]
		if !ok {
			return nil, nil, apperrors.NewInvalidInputError("unknown export column %q", raw)
		}
		indexes = append(indexes, idx)
		header = append(header, name)
	}
	return indexes, header, nil
}

// TemplateRows builds the import template: header plus one sample row per
// requested account type (all four when none are requested).
func (s *ExportService) TemplateRows(req dto.TemplateRequestDTO) ([]string, [][]string) {
	businessUnit := req.BusinessUnit
	if businessUnit == "" {
		businessUnit = entities.DefaultBusinessUnit
	}

	accountTypes := req.AccountTypes
	if len(accountTypes) == 0 {
		accountTypes = []string{
			entities.AccountTypeAsset,
			entities.AccountTypeLiability,
			entities.AccountTypeRevenue,
			entities.AccountTypeCost,
		}
	}

	samples := map[string]entities.Account{
		entities.AccountTypeAsset: {
			Code: "1000", Name: "Assets", AccountType: entities.AccountTypeAsset,
			StatementType: entities.StatementBalanceSheet, ParentCode: entities.StatementBalanceSheet,
		},
		entities.AccountTypeLiability: {
			Code: "2000", Name: "Liabilities", AccountType: entities.AccountTypeLiability,
			StatementType: entities.StatementBalanceSheet, ParentCode: entities.StatementBalanceSheet,
		},
		entities.AccountTypeRevenue: {
			Code: "4000", Name: "Revenue", AccountType: entities.AccountTypeRevenue,
			StatementType: entities.StatementProfitLoss, ParentCode: entities.StatementProfitLoss,
		},
		entities.AccountTypeCost: {
			Code: "5000", Name: "Costs", AccountType: entities.AccountTypeCost,
			StatementType: entities.StatementProfitLoss, ParentCode: entities.StatementProfitLoss,
		},
	}

	rows := make([][]string, 0, len(accountTypes))
	order := 1000
	for _, accountType := range accountTypes {
		sample, ok := samples[accountType]
		if !ok {
			continue
		}
		sample.BusinessUnit = businessUnit
		sampleOrder := order
		sample.Order = &sampleOrder
		rows = append(rows, accountToRow(sample))
		order += 100
	}
	return entities.AccountColumns, rows
}

// Import validates uploaded rows against the business rules and, depending on
// the mode, replaces the working set, appends to it, or upserts into it. Any
// rule violation in the resulting set blocks the apply.
func (s *ExportService) Import(ctx context.Context, sessionID string, records []map[string]string, mode string) (*dto.ImportResultDTO, error) {
	switch mode {
	case dto.ImportModeValidate, dto.ImportModeReplace, dto.ImportModeAppend, dto.ImportModeUpdate:
	default:
		return nil, apperrors.NewInvalidInputError(
			"unknown import mode %q; use %q, %q, %q or %q", mode,
			dto.ImportModeValidate, dto.ImportModeReplace, dto.ImportModeAppend, dto.ImportModeUpdate)
	}

	uploaded := recordsToAccounts(records)
	if len(uploaded) == 0 {
		return nil, apperrors.NewInvalidInputError("the uploaded file contains no account rows")
	}

	accounts := uploaded
	if mode == dto.ImportModeAppend || mode == dto.ImportModeUpdate {
		existing, err := s.wsRepo.GetAccounts(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if mode == dto.ImportModeAppend {
			accounts = append(existing, uploaded...)
		} else {
			accounts = upsertAccounts(existing, uploaded)
		}
	}
	computeLevels(accounts)

	violations := validateRules(accounts)
	result := &dto.ImportResultDTO{
		Mode:       mode,
		RowCount:   len(uploaded),
		ResultRows: len(accounts),
		Violations: violations,
	}

	if mode == dto.ImportModeValidate || len(violations) > 0 {
		return result, nil
	}

	meta, err := s.wsRepo.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ttl := time.Until(meta.ExpiresAt)
	if ttl <= 0 {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := s.wsRepo.SaveAccounts(ctx, sessionID, accounts, ttl); err != nil {
		return nil, err
	}
	meta.Dirty = true
	if err := s.wsRepo.SaveMeta(ctx, *meta, ttl); err != nil {
		return nil, err
	}

	_ = s.journal.Record(ctx, sessionID, entities.AuditActionImport, entities.Account{}, nil,
		map[string]interface{}{"mode": mode, "row_count": len(accounts)})
	s.logger.Info("import applied",
		zap.String("session_id", sessionID),
		zap.String("mode", mode),
		zap.Int("rows", len(accounts)),
	)

	result.Applied = true
	return result, nil
}

// upsertAccounts overwrites rows matched by business unit and code and appends
// the rest, preserving the order of the existing set.
func upsertAccounts(existing, uploaded []entities.Account) []entities.Account {
	type unitCode struct {
		unit string
		code string
	}
	merged := append([]entities.Account(nil), existing...)
	index := make(map[unitCode]int, len(merged))
	for i, a := range merged {
		index[unitCode{a.BusinessUnit, a.Code}] = i
	}
	for _, a := range uploaded {
		key := unitCode{a.BusinessUnit, a.Code}
		if i, ok := index[key]; ok {
			merged[i] = a
			continue
		}
		index[key] = len(merged)
		merged = append(merged, a)
	}
	return merged
}
