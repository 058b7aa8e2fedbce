package services

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/repositories"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/types"
)

type AccountServiceInterface interface {
	GetAccounts(ctx context.Context, sessionID string, filter types.Filter) ([]dto.AccountDTO, uint64, error)
	FindAccount(ctx context.Context, sessionID, code string) (*dto.AccountDTO, error)
	CreateAccount(ctx context.Context, sessionID string, payload dto.CreateAccountDTO) (*dto.AccountDTO, error)
	UpdateAccount(ctx context.Context, sessionID, code string, payload dto.UpdateAccountDTO) (*dto.AccountDTO, error)
	DeleteAccount(ctx context.Context, sessionID, code string) error
	NextOrder(ctx context.Context, sessionID, parentCode, businessUnit string) (*dto.NextOrderDTO, error)
	GetTree(ctx context.Context, sessionID, businessUnit, statement string) ([]dto.TreeNodeDTO, error)
	Validate(ctx context.Context, sessionID string) ([]dto.ViolationDTO, error)
	BusinessUnits(ctx context.Context, sessionID string) ([]string, error)
}

type AccountService struct {
	wsRepo  repositories.WorkingSetRepositoryInterface
	journal JournalInterface
	logger  *zap.Logger
}

func NewAccountService(
	wsRepo repositories.WorkingSetRepositoryInterface,
	journal JournalInterface,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{wsRepo: wsRepo, journal: journal, logger: logger}
}

// loadWorkingSet fetches the session's accounts together with its metadata.
func (s *AccountService) loadWorkingSet(ctx context.Context, sessionID string) ([]entities.Account, *entities.SessionMeta, error) {
	meta, err := s.wsRepo.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := s.wsRepo.GetAccounts(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return accounts, meta, nil
}

// storeWorkingSet writes back the accounts, recomputes levels and marks the
// session dirty, keeping the remaining TTL.
func (s *AccountService) storeWorkingSet(ctx context.Context, meta *entities.SessionMeta, accounts []entities.Account) error {
	computeLevels(accounts)
	ttl := time.Until(meta.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionNotFound
	}
	if err := s.wsRepo.SaveAccounts(ctx, meta.SessionID, accounts, ttl); err != nil {
		return err
	}
	meta.Dirty = true
	return s.wsRepo.SaveMeta(ctx, *meta, ttl)
}

func (s *AccountService) GetAccounts(ctx context.Context, sessionID string, filter types.Filter) ([]dto.AccountDTO, uint64, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	filtered := filterAccounts(accounts, filter)
	sortAccounts(filtered, filter.Sort)
	total := uint64(len(filtered))

	if filter.WithPagination {
		start := filter.Offset
		if start > len(filtered) {
			start = len(filtered)
		}
		end := start + filter.Limit
		if filter.Limit <= 0 || end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}

	return dto.AccountsToDTO(filtered), total, nil
}

func (s *AccountService) FindAccount(ctx context.Context, sessionID, code string) (*dto.AccountDTO, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Code == code {
			out := dto.AccountToDTO(a)
			return &out, nil
		}
	}
	return nil, apperrors.NewHttpError(http.StatusNotFound, "account not found", apperrors.ErrNotFound,
		map[string]interface{}{"code": code})
}

func (s *AccountService) CreateAccount(ctx context.Context, sessionID string, payload dto.CreateAccountDTO) (*dto.AccountDTO, error) {
	accounts, meta, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	businessUnit := payload.BusinessUnit
	if businessUnit == "" {
		businessUnit = entities.DefaultBusinessUnit
	}
	parentCode := payload.ParentCode
	if parentCode == "" {
		// A new account with no explicit parent becomes a statement root.
		parentCode = payload.StatementType
	}

	if err := accountTypeMatchesStatement(payload.AccountType, payload.StatementType); err != nil {
		return nil, apperrors.NewInvalidInputError("%s", err.Error())
	}
	for _, a := range accounts {
		if a.Code == payload.Code && a.BusinessUnit == businessUnit {
			return nil, apperrors.NewInvalidInputError(
				"code %q already exists in business unit %q; use a unique code within this business unit",
				payload.Code, businessUnit)
		}
	}
	if err := s.checkParentExists(accounts, parentCode); err != nil {
		return nil, err
	}

	account := entities.Account{
		BusinessUnit:  businessUnit,
		Code:          payload.Code,
		Name:          payload.Name,
		NameEng:       payload.NameEng.String,
		ParentCode:    parentCode,
		AccountType:   payload.AccountType,
		StatementType: payload.StatementType,
		CentralCode:   payload.CentralCode.String,
	}
	if payload.Order.Valid {
		order := payload.Order.Int
		account.Order = &order
	} else {
		order := nextOrderForParent(accounts, parentCode, businessUnit)
		account.Order = &order
	}

	accounts = append(accounts, account)
	if err := s.storeWorkingSet(ctx, meta, accounts); err != nil {
		return nil, err
	}

	_ = s.journal.Record(ctx, sessionID, entities.AuditActionAdd, account, nil, accountValues(account))
	s.logger.Info("account created",
		zap.String("session_id", sessionID),
		zap.String("code", account.Code),
		zap.String("business_unit", account.BusinessUnit),
	)

	out := dto.AccountToDTO(accounts[len(accounts)-1])
	return &out, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, sessionID, code string, payload dto.UpdateAccountDTO) (*dto.AccountDTO, error) {
	accounts, meta, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, a := range accounts {
		if a.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewHttpError(http.StatusNotFound, "account not found", apperrors.ErrNotFound,
			map[string]interface{}{"code": code})
	}

	old := accounts[idx]
	updated := old

	if payload.BusinessUnit != nil {
		updated.BusinessUnit = *payload.BusinessUnit
	}
	if payload.Code != nil {
		updated.Code = *payload.Code
	}
	if payload.Name != nil {
		updated.Name = *payload.Name
	}
	if payload.NameEng.Valid {
		updated.NameEng = payload.NameEng.String
	}
	if payload.ParentCode.Valid {
		updated.ParentCode = payload.ParentCode.String
	}
	if payload.AccountType != nil {
		updated.AccountType = *payload.AccountType
	}
	if payload.StatementType != nil {
		updated.StatementType = *payload.StatementType
	}
	if payload.Order.Valid {
		order := payload.Order.Int
		updated.Order = &order
	}
	if payload.CentralCode.Valid {
		updated.CentralCode = payload.CentralCode.String
	}

	if err := accountTypeMatchesStatement(updated.AccountType, updated.StatementType); err != nil {
		return nil, apperrors.NewInvalidInputError("%s", err.Error())
	}
	for i, a := range accounts {
		if i != idx && a.Code == updated.Code && a.BusinessUnit == updated.BusinessUnit {
			return nil, apperrors.NewInvalidInputError(
				"code %q already exists in business unit %q; use a unique code within this business unit",
				updated.Code, updated.BusinessUnit)
		}
	}
	if updated.ParentCode != old.ParentCode || updated.Code != old.Code {
		if err := s.checkParentExists(accounts, updated.ParentCode); err != nil {
			return nil, err
		}
		if updated.ParentCode == updated.Code {
			return nil, apperrors.NewInvalidInputError("account %q cannot be its own parent", updated.Code)
		}
		if isDescendant(accounts, old.Code, updated.ParentCode) {
			return nil, apperrors.NewInvalidInputError(
				"cannot move account %q under its own descendant %q", old.Code, updated.ParentCode)
		}
	}

	// A rename re-parents the children to the new code.
	if updated.Code != old.Code {
		for i := range accounts {
			if accounts[i].ParentCode == old.Code {
				accounts[i].ParentCode = updated.Code
			}
		}
	}

	accounts[idx] = updated
	if err := s.storeWorkingSet(ctx, meta, accounts); err != nil {
		return nil, err
	}

	_ = s.journal.Record(ctx, sessionID, entities.AuditActionUpdate, updated, accountValues(old), accountValues(updated))
	s.logger.Info("account updated",
		zap.String("session_id", sessionID),
		zap.String("code", code),
	)

	out := dto.AccountToDTO(accounts[idx])
	return &out, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, sessionID, code string) error {
	accounts, meta, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return err
	}

	idx := -1
	for i, a := range accounts {
		if a.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.NewHttpError(http.StatusNotFound, "account not found", apperrors.ErrNotFound,
			map[string]interface{}{"code": code})
	}

	childCount := 0
	for _, a := range accounts {
		if a.ParentCode == code {
			childCount++
		}
	}
	if childCount > 0 {
		return apperrors.NewInvalidInputError(
			"cannot delete account %q: it has %d children", code, childCount)
	}

	old := accounts[idx]
	accounts = append(accounts[:idx], accounts[idx+1:]...)
	if err := s.storeWorkingSet(ctx, meta, accounts); err != nil {
		return err
	}

	_ = s.journal.Record(ctx, sessionID, entities.AuditActionDelete, old, accountValues(old), nil)
	s.logger.Info("account deleted",
		zap.String("session_id", sessionID),
		zap.String("code", code),
	)
	return nil
}

func (s *AccountService) NextOrder(ctx context.Context, sessionID, parentCode, businessUnit string) (*dto.NextOrderDTO, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.NextOrderDTO{
		ParentCode: parentCode,
		NextOrder:  nextOrderForParent(accounts, parentCode, businessUnit),
	}, nil
}

func (s *AccountService) GetTree(ctx context.Context, sessionID, businessUnit, statement string) ([]dto.TreeNodeDTO, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if businessUnit != "" {
		scoped := accounts[:0:0]
		for _, a := range accounts {
			if a.BusinessUnit == businessUnit {
				scoped = append(scoped, a)
			}
		}
		accounts = scoped
	}
	if statement != "" {
		scoped := accounts[:0:0]
		for _, a := range accounts {
			if a.StatementType == statement {
				scoped = append(scoped, a)
			}
		}
		accounts = scoped
	}

	var roots []entities.Account
	if statement != "" {
		roots = childrenOf(accounts, statement)
	} else {
		roots = append(childrenOf(accounts, entities.StatementBalanceSheet),
			childrenOf(accounts, entities.StatementProfitLoss)...)
	}

	nodes := make([]dto.TreeNodeDTO, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, buildTreeNode(accounts, root, 0))
	}
	return nodes, nil
}

func buildTreeNode(accounts []entities.Account, account entities.Account, depth int) dto.TreeNodeDTO {
	node := dto.TreeNodeDTO{
		Account:  dto.AccountToDTO(account),
		Children: []dto.TreeNodeDTO{},
	}
	if depth >= entities.MaxHierarchyDepth {
		return node
	}
	for _, child := range childrenOf(accounts, account.Code) {
		node.Children = append(node.Children, buildTreeNode(accounts, child, depth+1))
	}
	return node
}

func (s *AccountService) Validate(ctx context.Context, sessionID string) ([]dto.ViolationDTO, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return validateRules(accounts), nil
}

func (s *AccountService) BusinessUnits(ctx context.Context, sessionID string) ([]string, error) {
	accounts, _, err := s.loadWorkingSet(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	units := make([]string, 0)
	for _, a := range accounts {
		if _, ok := seen[a.BusinessUnit]; !ok {
			seen[a.BusinessUnit] = struct{}{}
			units = append(units, a.BusinessUnit)
		}
	}
	sort.Strings(units)
	return units, nil
}

func (s *AccountService) checkParentExists(accounts []entities.Account, parentCode string) error {
	if parentCode == "" ||
		parentCode == entities.StatementBalanceSheet ||
		parentCode == entities.StatementProfitLoss {
		return nil
	}
	for _, a := range accounts {
		if a.Code == parentCode {
			return nil
		}
	}
	return apperrors.NewInvalidInputError(
		"parent code %q does not exist; use a valid parent code", parentCode)
}

// filterAccounts applies the search and filter[...] parameters in memory.
func filterAccounts(accounts []entities.Account, filter types.Filter) []entities.Account {
	out := make([]entities.Account, 0, len(accounts))
	search := strings.ToLower(filter.Search)

	match := func(a entities.Account) bool {
		if search != "" {
			if !strings.Contains(strings.ToLower(a.Name), search) &&
				!strings.Contains(strings.ToLower(a.Code), search) &&
				!strings.Contains(strings.ToLower(a.NameEng), search) {
				return false
			}
		}
		if v, ok := filter.Filter["business_unit"]; ok && !matchesFilterValue(a.BusinessUnit, v) {
			return false
		}
		if v, ok := filter.Filter["type_account"]; ok && !matchesFilterValue(a.AccountType, v) {
			return false
		}
		if v, ok := filter.Filter["type_fin_statement"]; ok && !matchesFilterValue(a.StatementType, v) {
			return false
		}
		if v, ok := filter.Filter["parent_code"]; ok && !matchesFilterValue(a.ParentCode, v) {
			return false
		}
		return true
	}

	for _, a := range accounts {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

func matchesFilterValue(value string, filterValue interface{}) bool {
	s, ok := filterValue.(string)
	if !ok {
		return true
	}
	for _, candidate := range strings.Split(s, ",") {
		if value == candidate {
			return true
		}
	}
	return false
}

// sortAccounts orders by the requested sort fields, defaulting to
// statement type then display order.
func sortAccounts(accounts []entities.Account, sortSpec map[string]string) {
	if len(sortSpec) == 0 {
		sort.SliceStable(accounts, func(i, j int) bool {
			if accounts[i].StatementType != accounts[j].StatementType {
				return accounts[i].StatementType < accounts[j].StatementType
			}
			return lessByOrder(accounts[i], accounts[j])
		})
		return
	}

	// Map order is random; sort the fields so repeated requests agree on
	// which key wins ties.
	fields := make([]string, 0, len(sortSpec))
	for field := range sortSpec {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		desc := sortSpec[field] == "desc"
		less := accountLessFunc(field)
		if less == nil {
			continue
		}
		sort.SliceStable(accounts, func(i, j int) bool {
			if desc {
				return less(accounts[j], accounts[i])
			}
			return less(accounts[i], accounts[j])
		})
	}
}

func accountLessFunc(field string) func(a, b entities.Account) bool {
	switch field {
	case "code":
		return func(a, b entities.Account) bool { return a.Code < b.Code }
	case "name":
		return func(a, b entities.Account) bool { return a.Name < b.Name }
	case "business_unit":
		return func(a, b entities.Account) bool { return a.BusinessUnit < b.BusinessUnit }
	case "level":
		return func(a, b entities.Account) bool { return a.Level < b.Level }
	case "order":
		return lessByOrder
	}
	return nil
}

func lessByOrder(a, b entities.Account) bool {
	switch {
	case a.Order == nil && b.Order == nil:
		return a.Code < b.Code
	case a.Order == nil:
		return false
	case b.Order == nil:
		return true
	case *a.Order != *b.Order:
		return *a.Order < *b.Order
	}
	return a.Code < b.Code
}

// accountValues renders an account as audit-log payload.
func accountValues(a entities.Account) map[string]interface{} {
	values := map[string]interface{}{
		"FK_BUSINESS_UNIT":     a.BusinessUnit,
		"CODE_FIN_STAT":        a.Code,
		"NAME_FIN_STAT":        a.Name,
		"CODE_PARENT_FIN_STAT": a.ParentCode,
		"TYPE_ACCOUNT":         a.AccountType,
		"TYPE_FIN_STATEMENT":   a.StatementType,
	}
	if a.Order != nil {
		values["NUM_FIN_STAT_ORDER"] = *a.Order
	}
	if a.NameEng != "" {
		values["NAME_FIN_STAT_ENG"] = a.NameEng
	}
	if a.CentralCode != "" {
		values["FININ_CODE_FIN_STAT"] = a.CentralCode
	}
	return values
}
