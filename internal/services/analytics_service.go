package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	"coa-service/internal/repositories"
)

type AnalyticsServiceInterface interface {
	Overview(ctx context.Context, sessionID, businessUnit string) (*dto.OverviewDTO, error)
	Insights(ctx context.Context, sessionID, businessUnit string) ([]dto.InsightDTO, error)
}

type AnalyticsService struct {
	wsRepo repositories.WorkingSetRepositoryInterface
	logger *zap.Logger
}

func NewAnalyticsService(wsRepo repositories.WorkingSetRepositoryInterface, logger *zap.Logger) AnalyticsServiceInterface {
	return &AnalyticsService{wsRepo: wsRepo, logger: logger}
}

func (s *AnalyticsService) Overview(ctx context.Context, sessionID, businessUnit string) (*dto.OverviewDTO, error) {
	accounts, err := s.scoped(ctx, sessionID, businessUnit)
	if err != nil {
		return nil, err
	}

	overview := &dto.OverviewDTO{
		TotalAccounts:    len(accounts),
		ByAccountType:    make(map[string]int),
		ByStatementType:  make(map[string]int),
		ByHierarchyLevel: make(map[int]int),
	}

	parents := parentCodeSet(accounts)
	levelSum := 0
	for _, a := range accounts {
		levelSum += a.Level
		overview.ByAccountType[a.AccountType]++
		overview.ByStatementType[a.StatementType]++
		overview.ByHierarchyLevel[a.Level]++

		switch a.StatementType {
		case entities.StatementBalanceSheet:
			overview.BalanceSheetCount++
		case entities.StatementProfitLoss:
			overview.ProfitLossCount++
		}
		if a.Level > overview.MaxHierarchyLevel {
			overview.MaxHierarchyLevel = a.Level
		}
		if a.IsRoot() {
			overview.RootCount++
		}
		if _, ok := parents[a.Code]; !ok {
			overview.LeafCount++
		}
	}
	if len(accounts) > 0 {
		overview.AvgHierarchyLevel = float64(levelSum) / float64(len(accounts))
	}

	return overview, nil
}

func (s *AnalyticsService) Insights(ctx context.Context, sessionID, businessUnit string) ([]dto.InsightDTO, error) {
	overview, err := s.Overview(ctx, sessionID, businessUnit)
	if err != nil {
		return nil, err
	}

	insights := make([]dto.InsightDTO, 0, 4)

	if overview.TotalAccounts == 0 {
		return append(insights, dto.InsightDTO{
			Title:       "Empty chart of accounts",
			Description: "The working set contains no accounts.",
			Recommendations: []string{
				"Load accounts from the master table or import a file before analyzing.",
			},
		}), nil
	}

	depth := dto.InsightDTO{
		Title: "Hierarchy depth",
		Description: fmt.Sprintf("The chart spans %d hierarchy levels across %d accounts, averaging %.1f levels deep.",
			overview.MaxHierarchyLevel+1, overview.TotalAccounts, overview.AvgHierarchyLevel),
	}
	if overview.MaxHierarchyLevel >= entities.MaxHierarchyDepth-2 {
		depth.Recommendations = append(depth.Recommendations,
			fmt.Sprintf("The deepest branch is close to the %d-level reporting limit; consider flattening it.",
				entities.MaxHierarchyDepth))
	}
	insights = append(insights, depth)

	typeInsight := dto.InsightDTO{
		Title: "Account type distribution",
		Description: fmt.Sprintf("Assets: %d, liabilities: %d, revenues: %d, costs: %d.",
			overview.ByAccountType[entities.AccountTypeAsset],
			overview.ByAccountType[entities.AccountTypeLiability],
			overview.ByAccountType[entities.AccountTypeRevenue],
			overview.ByAccountType[entities.AccountTypeCost]),
	}
	for accountType, count := range overview.ByAccountType {
		switch accountType {
		case entities.AccountTypeAsset, entities.AccountTypeLiability,
			entities.AccountTypeRevenue, entities.AccountTypeCost:
		default:
			typeInsight.Recommendations = append(typeInsight.Recommendations,
				fmt.Sprintf("%d accounts carry the unknown type %q; expected A, P, R or C.", count, accountType))
		}
	}
	insights = append(insights, typeInsight)

	balance := dto.InsightDTO{
		Title: "Statement balance",
		Description: fmt.Sprintf("Balance sheet holds %d accounts, profit and loss holds %d.",
			overview.BalanceSheetCount, overview.ProfitLossCount),
	}
	if overview.BalanceSheetCount == 0 || overview.ProfitLossCount == 0 {
		balance.Recommendations = append(balance.Recommendations,
			"One financial statement has no accounts; a complete chart usually covers both.")
	}
	insights = append(insights, balance)

	structure := dto.InsightDTO{
		Title: "Structure",
		Description: fmt.Sprintf("%d of %d accounts are roots and %d are leaves.",
			overview.RootCount, overview.TotalAccounts, overview.LeafCount),
	}
	if overview.RootCount == overview.TotalAccounts && overview.TotalAccounts > 1 {
		structure.Recommendations = append(structure.Recommendations,
			"Every account is a root; parent codes may be missing or unresolved.")
	}
	insights = append(insights, structure)

	return insights, nil
}

func (s *AnalyticsService) scoped(ctx context.Context, sessionID, businessUnit string) ([]entities.Account, error) {
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
