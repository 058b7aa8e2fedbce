package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/integrations/keboola"
	"coa-service/internal/repositories"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/service"
)

type SessionServiceInterface interface {
	Open(ctx context.Context) (*dto.SessionDTO, error)
	Current(ctx context.Context, sessionID string) (*dto.SessionDTO, error)
	Save(ctx context.Context, sessionID string) (*dto.SaveResultDTO, error)
	Refresh(ctx context.Context, sessionID string, force bool) (*dto.SessionDTO, error)
	Close(ctx context.Context, sessionID string) error
}

type SessionService struct {
	storage    keboola.StorageClient
	wsRepo     repositories.WorkingSetRepositoryInterface
	journal    JournalInterface
	tokens     service.TokenService
	coaTableID string
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewSessionService(
	storage keboola.StorageClient,
	wsRepo repositories.WorkingSetRepositoryInterface,
	journal JournalInterface,
	tokens service.TokenService,
	coaTableID string,
	sessionTTL time.Duration,
	logger *zap.Logger,
) SessionServiceInterface {
	return &SessionService{
		storage:    storage,
		wsRepo:     wsRepo,
		journal:    journal,
		tokens:     tokens,
		coaTableID: coaTableID,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Open loads the master COA table into a fresh working copy and issues a
// session token for it.
func (s *SessionService) Open(ctx context.Context) (*dto.SessionDTO, error) {
	records, err := s.storage.ReadTable(ctx, s.coaTableID)
	if err != nil {
		return nil, err
	}

	accounts := recordsToAccounts(records)
	computeLevels(accounts)

	meta := entities.SessionMeta{
		SessionID:     uuid.NewString(),
		SourceTableID: s.coaTableID,
		CreatedAt:     time.Now(),
		ExpiresAt:     time.Now().Add(s.sessionTTL),
	}

	if err := s.wsRepo.SaveAccounts(ctx, meta.SessionID, accounts, s.sessionTTL); err != nil {
		return nil, err
	}
	if err := s.wsRepo.SaveMeta(ctx, meta, s.sessionTTL); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(meta.SessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session opened",
		zap.String("session_id", meta.SessionID),
		zap.String("table_id", s.coaTableID),
		zap.Int("rows", len(accounts)),
	)

	out := sessionToDTO(meta, accounts)
	out.Token = token
	return &out, nil
}

func (s *SessionService) Current(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	meta, err := s.wsRepo.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.wsRepo.GetAccounts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := sessionToDTO(*meta, accounts)
	return &out, nil
}

// Save writes the entire working copy back to the master table as a full
// load. The last save wins; there is no merge.
func (s *SessionService) Save(ctx context.Context, sessionID string) (*dto.SaveResultDTO, error) {
	meta, err := s.wsRepo.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.wsRepo.GetAccounts(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountToRow(a))
	}
	if err := s.storage.WriteTable(ctx, meta.SourceTableID, entities.AccountColumns, rows); err != nil {
		return nil, err
	}

	savedAt := time.Now()
	meta.Dirty = false
	ttl := time.Until(meta.ExpiresAt)
	if ttl > 0 {
		if err := s.wsRepo.SaveMeta(ctx, *meta, ttl); err != nil {
			return nil, err
		}
	}

	_ = s.journal.Record(ctx, sessionID, entities.AuditActionSave, entities.Account{}, nil,
		map[string]interface{}{"table_id": meta.SourceTableID, "row_count": len(accounts)})
	s.logger.Info("session saved",
		zap.String("session_id", sessionID),
		zap.String("table_id", meta.SourceTableID),
		zap.Int("rows", len(accounts)),
	)

	return &dto.SaveResultDTO{
		TableID:  meta.SourceTableID,
		RowCount: len(accounts),
		SavedAt:  savedAt.Format(time.RFC3339),
	}, nil
}

// Refresh discards the working copy and reloads it from the master table.
// Unsaved changes block the reload unless force is set.
func (s *SessionService) Refresh(ctx context.Context, sessionID string, force bool) (*dto.SessionDTO, error) {
	meta, err := s.wsRepo.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if meta.Dirty && !force {
		return nil, apperrors.ErrUnsavedChanges
	}

	records, err := s.storage.ReadTable(ctx, meta.SourceTableID)
	if err != nil {
		return nil, err
	}
	accounts := recordsToAccounts(records)
	computeLevels(accounts)

	ttl := time.Until(meta.ExpiresAt)
	if ttl <= 0 {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := s.wsRepo.SaveAccounts(ctx, sessionID, accounts, ttl); err != nil {
		return nil, err
	}
	meta.Dirty = false
	if err := s.wsRepo.SaveMeta(ctx, *meta, ttl); err != nil {
		return nil, err
	}

	s.logger.Info("session refreshed",
		zap.String("session_id", sessionID),
		zap.Int("rows", len(accounts)),
		zap.Bool("forced", force),
	)

	out := sessionToDTO(*meta, accounts)
	return &out, nil
}

func (s *SessionService) Close(ctx context.Context, sessionID string) error {
	if err := s.wsRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

func sessionToDTO(meta entities.SessionMeta, accounts []entities.Account) dto.SessionDTO {
	seen := make(map[string]struct{})
	units := make([]string, 0)
	for _, a := range accounts {
		if _, ok := seen[a.BusinessUnit]; !ok {
			seen[a.BusinessUnit] = struct{}{}
			units = append(units, a.BusinessUnit)
		}
	}

	return dto.SessionDTO{
		SessionID:      meta.SessionID,
		RowCount:       len(accounts),
		BusinessUnits:  units,
		UnsavedChanges: meta.Dirty,
		ExpiresAt:      meta.ExpiresAt.Format(time.RFC3339),
		SourceTableID:  meta.SourceTableID,
	}
}

// recordsToAccounts normalizes raw platform rows: header names are matched
// case-insensitively, the business unit defaults when blank and orders that
// do not parse as integers are dropped.
func recordsToAccounts(records []map[string]string) []entities.Account {
	accounts := make([]entities.Account, 0, len(records))
	for _, rec := range records {
		get := func(key string) string {
			if v, ok := rec[key]; ok {
				return strings.TrimSpace(v)
			}
			for k, v := range rec {
				if strings.EqualFold(k, key) {
					return strings.TrimSpace(v)
				}
			}
			return ""
		}

		account := entities.Account{
			BusinessUnit:  get("FK_BUSINESS_UNIT"),
			Code:          get("CODE_FIN_STAT"),
			Name:          get("NAME_FIN_STAT"),
			ParentCode:    get("CODE_PARENT_FIN_STAT"),
			AccountType:   strings.ToUpper(get("TYPE_ACCOUNT")),
			StatementType: strings.ToUpper(get("TYPE_FIN_STATEMENT")),
			NameEng:       get("NAME_FIN_STAT_ENG"),
			CentralCode:   get("FININ_CODE_FIN_STAT"),
		}
		if account.BusinessUnit == "" {
			account.BusinessUnit = entities.DefaultBusinessUnit
		}
		if raw := get("NUM_FIN_STAT_ORDER"); raw != "" {
			if order, err := strconv.Atoi(raw); err == nil {
				account.Order = &order
			}
		}
		if account.Code == "" {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// accountToRow renders an account in AccountColumns order.
func accountToRow(a entities.Account) []string {
	order := ""
	if a.Order != nil {
		order = strconv.Itoa(*a.Order)
	}
	return []string{
		a.BusinessUnit,
		order,
		a.Code,
		a.Name,
		a.ParentCode,
		a.AccountType,
		a.StatementType,
		a.NameEng,
		a.CentralCode,
	}
}
