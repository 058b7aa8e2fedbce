package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/repositories"
	apperrors "coa-service/pkg/errors"
)

const (
	centralMappingValidFrom = "20000101"
	centralMappingValidTo   = "30000101"
	centralMappingDescMax   = 1024

	rankSeparator = " | "
	indentMarker  = "--- "
)

type TransformServiceInterface interface {
	Transform(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error)
	SubunitCOA(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error)
	CentralMapping(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error)
	CountCheck(ctx context.Context, sessionID string) (*dto.CountCheckDTO, error)
}

type TransformService struct {
	wsRepo   repositories.WorkingSetRepositoryInterface
	subunits SubunitServiceInterface
	logger   *zap.Logger
}

func NewTransformService(
	wsRepo repositories.WorkingSetRepositoryInterface,
	subunits SubunitServiceInterface,
	logger *zap.Logger,
) TransformServiceInterface {
	return &TransformService{wsRepo: wsRepo, subunits: subunits, logger: logger}
}

// Transform runs the enrichment pipeline over the working set, optionally
// scoped to one business unit.
func (s *TransformService) Transform(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error) {
	accounts, err := s.scopedAccounts(ctx, sessionID, businessUnit)
	if err != nil {
		return nil, err
	}

	enriched, dropped := enrichAccounts(accounts)
	s.logger.Info("transform finished",
		zap.String("session_id", sessionID),
		zap.Int("input_rows", len(accounts)),
		zap.Int("output_rows", len(enriched)),
		zap.Int("dropped_rows", len(dropped)),
	)

	return &dto.TransformResultDTO{
		InputRows:   len(accounts),
		OutputRows:  len(enriched),
		DroppedRows: len(dropped),
		Rows:        enriched,
	}, nil
}

// SubunitCOA cross-joins the enriched COA of one business unit with that
// unit's subunits.
func (s *TransformService) SubunitCOA(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error) {
	accounts, err := s.scopedAccounts(ctx, sessionID, businessUnit)
	if err != nil {
		return nil, err
	}
	subunitList, err := s.subunits.SubunitsOf(ctx, businessUnit)
	if err != nil {
		return nil, err
	}
	if len(subunitList) == 0 {
		return nil, apperrors.NewInvalidInputError(
			"business unit %q has no subunits; check the subunit reference table", businessUnit)
	}

	enriched, dropped := enrichAccounts(accounts)

	rows := make([]entities.SubunitAccount, 0, len(enriched)*len(subunitList))
	for _, su := range subunitList {
		for _, row := range enriched {
			rows = append(rows, entities.SubunitAccount{
				BusinessSubunit: su.PK,
				EnrichedAccount: row,
			})
		}
	}

	return &dto.TransformResultDTO{
		InputRows:   len(accounts),
		OutputRows:  len(rows),
		DroppedRows: len(dropped),
		Rows:        rows,
	}, nil
}

// CentralMapping emits central-COA mapping rows for every account of the unit,
// one per subunit. Accounts without a central code still map, with the target
// left blank.
func (s *TransformService) CentralMapping(ctx context.Context, sessionID, businessUnit string) (*dto.TransformResultDTO, error) {
	accounts, err := s.scopedAccounts(ctx, sessionID, businessUnit)
	if err != nil {
		return nil, err
	}
	subunitList, err := s.subunits.SubunitsOf(ctx, businessUnit)
	if err != nil {
		return nil, err
	}
	if len(subunitList) == 0 {
		return nil, apperrors.NewInvalidInputError(
			"business unit %q has no subunits; check the subunit reference table", businessUnit)
	}

	rows := make([]entities.CentralMapping, 0, len(accounts)*len(subunitList))
	for _, a := range accounts {
		desc := a.Name
		if len(desc) > centralMappingDescMax {
			desc = desc[:centralMappingDescMax]
		}
		for _, su := range subunitList {
			rows = append(rows, entities.CentralMapping{
				BusinessSubunit: su.PK,
				SourceCode:      a.Code,
				CentralCode:     a.CentralCode,
				ValidFrom:       centralMappingValidFrom,
				ValidTo:         centralMappingValidTo,
				Description:     desc,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].BusinessSubunit != rows[j].BusinessSubunit {
			return rows[i].BusinessSubunit < rows[j].BusinessSubunit
		}
		return rows[i].SourceCode < rows[j].SourceCode
	})

	return &dto.TransformResultDTO{
		InputRows:  len(accounts),
		OutputRows: len(rows),
		Rows:       rows,
	}, nil
}

// CountCheck recomputes the pipeline and reports the rows it would drop.
func (s *TransformService) CountCheck(ctx context.Context, sessionID string) (*dto.CountCheckDTO, error) {
	accounts, err := s.scopedAccounts(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	enriched, dropped := enrichAccounts(accounts)
	return &dto.CountCheckDTO{
		InputRows:    len(accounts),
		OutputRows:   len(enriched),
		DroppedRows:  len(dropped),
		DroppedCodes: dropped,
	}, nil
}

func (s *TransformService) scopedAccounts(ctx context.Context, sessionID, businessUnit string) ([]entities.Account, error) {
	accounts, err := s.wsRepo.GetAccounts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if businessUnit == "" {
		return accounts, nil
	}

	scoped := make([]entities.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.BusinessUnit == businessUnit {
			scoped = append(scoped, a)
		}
	}
	return scoped, nil
}

// enrichAccounts mirrors the platform enrichment: rows without a numeric
// order are dropped, siblings get a two-digit rank within their
// (statement, parent) group, and the tree walk from the statement roots
// builds paths, indents and flattened level columns. Returns the enriched
// rows sorted by statement then order, plus the dropped codes.
func enrichAccounts(accounts []entities.Account) ([]entities.EnrichedAccount, []string) {
	dropped := make([]string, 0)
	ordered := make([]entities.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Order == nil {
			dropped = append(dropped, a.Code)
			continue
		}
		ordered = append(ordered, a)
	}
	sort.Strings(dropped)

	ranks := rankSiblings(ordered)

	byCode := make(map[string]entities.Account, len(ordered))
	for _, a := range ordered {
		byCode[a.Code] = a
	}

	enriched := make([]entities.EnrichedAccount, 0, len(ordered))
	var walk func(a entities.Account, level int, codePath, namePath []string, parentName string)
	walk = func(a entities.Account, level int, codePath, namePath []string, parentName string) {
		if level >= entities.MaxHierarchyDepth {
			return
		}

		rank := ranks[a.Code]
		// Copy the parent paths so sibling branches never share a backing array.
		codePath = append(append([]string(nil), codePath...), a.Code)
		namePath = append(append([]string(nil), namePath...), rank+"-"+a.Name)

		orderedNames := make([]string, len(namePath))
		for i, n := range namePath {
			// Strip the "NN-" rank prefix.
			if len(n) > 3 {
				orderedNames[i] = n[3:]
			} else {
				orderedNames[i] = n
			}
		}

		row := entities.EnrichedAccount{
			Level:             level,
			Order:             *a.Order,
			Rank:              rank,
			Code:              a.Code,
			Name:              a.Name,
			NameIndented:      strings.Repeat(indentMarker, level) + a.Name,
			ParentCode:        a.ParentCode,
			ParentName:        parentName,
			NameEng:           a.NameEng,
			AccountType:       a.AccountType,
			StatementType:     a.StatementType,
			CodePath:          strings.Join(codePath, rankSeparator),
			NamePath:          strings.Join(namePath, rankSeparator),
			CodeLevels:        append([]string(nil), codePath...),
			NameLevels:        append([]string(nil), namePath...),
			OrderedNameLevels: orderedNames,
		}
		enriched = append(enriched, row)

		for _, child := range childrenOf(ordered, a.Code) {
			walk(child, level+1, codePath, namePath, a.Name)
		}
	}

	for _, statement := range []string{entities.StatementBalanceSheet, entities.StatementProfitLoss} {
		for _, root := range childrenOf(ordered, statement) {
			walk(root, 0, nil, nil, "")
		}
	}

	// A code that never appears as a parent is a leaf.
	parents := parentCodeSet(ordered)
	for i := range enriched {
		if _, ok := parents[enriched[i].Code]; !ok {
			enriched[i].IsLeaf = 1
		}
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		if enriched[i].StatementType != enriched[j].StatementType {
			return enriched[i].StatementType < enriched[j].StatementType
		}
		if enriched[i].Order != enriched[j].Order {
			return enriched[i].Order < enriched[j].Order
		}
		return enriched[i].Code < enriched[j].Code
	})

	// Unreachable rows (broken parent chains) also count as dropped.
	if len(enriched) < len(ordered) {
		reached := make(map[string]struct{}, len(enriched))
		for _, row := range enriched {
			reached[row.Code] = struct{}{}
		}
		for _, a := range ordered {
			if _, ok := reached[a.Code]; !ok {
				dropped = append(dropped, a.Code)
			}
		}
		sort.Strings(dropped)
	}

	return enriched, dropped
}

// rankSiblings assigns each code its two-digit position among siblings of the
// same (statement, parent) group, ordered by display order.
func rankSiblings(accounts []entities.Account) map[string]string {
	type group struct{ statement, parent string }

	groups := make(map[group][]entities.Account)
	for _, a := range accounts {
		g := group{statement: a.StatementType, parent: a.ParentCode}
		groups[g] = append(groups[g], a)
	}

	ranks := make(map[string]string, len(accounts))
	for _, siblings := range groups {
		sortByOrder(siblings)
		for i, a := range siblings {
			ranks[a.Code] = fmt.Sprintf("%02d", i+1)
		}
	}
	return ranks
}
