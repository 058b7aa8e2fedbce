package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coa-service/internal/entities"
)

func newTestAnalyticsService(t *testing.T) (AnalyticsServiceInterface, string) {
	t.Helper()

	wsRepo := newFakeWorkingSetRepo()
	sessionID := "analytics-session"
	accounts := sampleAccounts()
	computeLevels(accounts)
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, accounts, time.Hour))

	return NewAnalyticsService(wsRepo, zap.NewNop()), sessionID
}

func TestOverviewCounts(t *testing.T) {
	svc, sessionID := newTestAnalyticsService(t)

	overview, err := svc.Overview(context.Background(), sessionID, "")
	require.NoError(t, err)

	assert.Equal(t, 6, overview.TotalAccounts)
	assert.Equal(t, 4, overview.BalanceSheetCount)
	assert.Equal(t, 2, overview.ProfitLossCount)
	assert.Equal(t, 4, overview.RootCount)
	assert.Equal(t, 5, overview.LeafCount)
	assert.Equal(t, 1, overview.MaxHierarchyLevel)
	// Two of six accounts sit one level below a root.
	assert.InDelta(t, 2.0/6.0, overview.AvgHierarchyLevel, 1e-9)
	assert.Equal(t, 2, overview.ByHierarchyLevel[1])
}

func TestInsightsReportAverageDepth(t *testing.T) {
	svc, sessionID := newTestAnalyticsService(t)

	insights, err := svc.Insights(context.Background(), sessionID, "")
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	assert.Equal(t, "Hierarchy depth", insights[0].Title)
	assert.Contains(t, insights[0].Description, "averaging 0.3 levels deep")
}

func TestOverviewEmptyWorkingSet(t *testing.T) {
	wsRepo := newFakeWorkingSetRepo()
	sessionID := "empty-session"
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, []entities.Account{}, time.Hour))
	svc := NewAnalyticsService(wsRepo, zap.NewNop())

	overview, err := svc.Overview(context.Background(), sessionID, "")
	require.NoError(t, err)
	assert.Zero(t, overview.TotalAccounts)
	assert.Zero(t, overview.AvgHierarchyLevel)

	insights, err := svc.Insights(context.Background(), sessionID, "")
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "Empty chart of accounts", insights[0].Title)
}
