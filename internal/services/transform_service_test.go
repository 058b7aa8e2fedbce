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

func TestEnrichAccountsPipeline(t *testing.T) {
	enriched, dropped := enrichAccounts(sampleAccounts())

	require.Len(t, enriched, 6)
	assert.Empty(t, dropped)

	byCode := make(map[string]entities.EnrichedAccount)
	for _, row := range enriched {
		byCode[row.Code] = row
	}

	root := byCode["A1"]
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, "01", root.Rank)
	assert.Equal(t, "Assets", root.NameIndented)
	assert.Equal(t, "A1", root.CodePath)
	assert.Equal(t, "01-Assets", root.NamePath)
	assert.Equal(t, 0, root.IsLeaf)
	assert.Equal(t, "", root.ParentName)

	child := byCode["A12"]
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, "02", child.Rank)
	assert.Equal(t, "--- Receivables", child.NameIndented)
	assert.Equal(t, "A1 | A12", child.CodePath)
	assert.Equal(t, "01-Assets | 02-Receivables", child.NamePath)
	assert.Equal(t, []string{"A1", "A12"}, child.CodeLevels)
	assert.Equal(t, []string{"01-Assets", "02-Receivables"}, child.NameLevels)
	assert.Equal(t, []string{"Assets", "Receivables"}, child.OrderedNameLevels)
	assert.Equal(t, 1, child.IsLeaf)
	assert.Equal(t, "Assets", child.ParentName)
}

func TestEnrichAccountsSiblingRanks(t *testing.T) {
	enriched, _ := enrichAccounts(sampleAccounts())

	ranks := make(map[string]string)
	for _, row := range enriched {
		ranks[row.Code] = row.Rank
	}

	// Statement roots rank within their own (statement, parent) group.
	assert.Equal(t, "01", ranks["A1"])
	assert.Equal(t, "02", ranks["P1"])
	assert.Equal(t, "01", ranks["R1"])
	assert.Equal(t, "02", ranks["C1"])
}

func TestEnrichAccountsDropsUnorderedRows(t *testing.T) {
	accounts := sampleAccounts()
	accounts = append(accounts, entities.Account{
		BusinessUnit: "001", Code: "NOORD", Name: "No order",
		ParentCode: "BS", AccountType: "A", StatementType: "BS",
	})

	enriched, dropped := enrichAccounts(accounts)

	assert.Len(t, enriched, 6)
	assert.Equal(t, []string{"NOORD"}, dropped)
}

func TestEnrichAccountsDropsUnreachableRows(t *testing.T) {
	accounts := sampleAccounts()
	accounts = append(accounts, entities.Account{
		BusinessUnit: "001", Code: "LOST", Name: "Broken parent",
		ParentCode: "GHOST", AccountType: "A", StatementType: "BS", Order: intPtr(9000),
	})

	enriched, dropped := enrichAccounts(accounts)

	assert.Len(t, enriched, 6)
	assert.Equal(t, []string{"LOST"}, dropped)
}

func TestEnrichAccountsSorting(t *testing.T) {
	enriched, _ := enrichAccounts(sampleAccounts())

	codes := make([]string, 0, len(enriched))
	for _, row := range enriched {
		codes = append(codes, row.Code)
	}
	// BS rows by order, then PL rows by order.
	assert.Equal(t, []string{"A1", "A11", "A12", "P1", "R1", "C1"}, codes)
}

func newTestTransformService(t *testing.T) (TransformServiceInterface, string) {
	t.Helper()

	wsRepo := newFakeWorkingSetRepo()
	sessionID := "transform-session"
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, sampleAccounts(), time.Hour))

	storage := &fakeStorage{tables: map[string][]map[string]string{
		"subunits": {
			{"PK_BUSINESS_SUBUNIT": "001-01", "FK_BUSINESS_UNIT": "001", "NAME_BUSINESS_SUBUNIT": "Head office"},
			{"PK_BUSINESS_SUBUNIT": "001-02", "FK_BUSINESS_UNIT": "001", "NAME_BUSINESS_SUBUNIT": "Branch"},
			{"PK_BUSINESS_SUBUNIT": "002-01", "FK_BUSINESS_UNIT": "002", "NAME_BUSINESS_SUBUNIT": "Other unit"},
		},
	}}
	subunits := NewSubunitService(storage, &fakeCache{}, "subunits", time.Minute, zap.NewNop())

	return NewTransformService(wsRepo, subunits, zap.NewNop()), sessionID
}

func TestTransformScopesBusinessUnit(t *testing.T) {
	svc, sessionID := newTestTransformService(t)

	result, err := svc.Transform(context.Background(), sessionID, "001")
	require.NoError(t, err)

	assert.Equal(t, 6, result.InputRows)
	assert.Equal(t, 6, result.OutputRows)
	assert.Equal(t, 0, result.DroppedRows)
}

func TestSubunitCOACrossJoin(t *testing.T) {
	svc, sessionID := newTestTransformService(t)

	result, err := svc.SubunitCOA(context.Background(), sessionID, "001")
	require.NoError(t, err)

	// 6 enriched rows x 2 subunits of unit 001.
	assert.Equal(t, 12, result.OutputRows)

	rows, ok := result.Rows.([]entities.SubunitAccount)
	require.True(t, ok)
	assert.Equal(t, "001-01", rows[0].BusinessSubunit)
}

func TestCentralMapping(t *testing.T) {
	wsRepo := newFakeWorkingSetRepo()
	sessionID := "mapping-session"
	accounts := sampleAccounts()
	accounts[0].CentralCode = "C-100"
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, accounts, time.Hour))

	storage := &fakeStorage{tables: map[string][]map[string]string{
		"subunits": {
			{"PK_BUSINESS_SUBUNIT": "001-01", "FK_BUSINESS_UNIT": "001", "NAME_BUSINESS_SUBUNIT": "Head office"},
		},
	}}
	subunits := NewSubunitService(storage, &fakeCache{}, "subunits", time.Minute, zap.NewNop())
	svc := NewTransformService(wsRepo, subunits, zap.NewNop())

	result, err := svc.CentralMapping(context.Background(), sessionID, "001")
	require.NoError(t, err)

	rows, ok := result.Rows.([]entities.CentralMapping)
	require.True(t, ok)
	// Every account maps, with or without a central code.
	require.Len(t, rows, 6)
	assert.Equal(t, "001-01", rows[0].BusinessSubunit)
	assert.Equal(t, "A1", rows[0].SourceCode)
	assert.Equal(t, "C-100", rows[0].CentralCode)
	assert.Equal(t, "20000101", rows[0].ValidFrom)
	assert.Equal(t, "30000101", rows[0].ValidTo)
	assert.Equal(t, "A11", rows[1].SourceCode)
	assert.Empty(t, rows[1].CentralCode)
	assert.Equal(t, 6, result.OutputRows)
	assert.Zero(t, result.DroppedRows)
}

func TestCountCheck(t *testing.T) {
	wsRepo := newFakeWorkingSetRepo()
	sessionID := "count-session"
	accounts := sampleAccounts()
	accounts = append(accounts, entities.Account{
		BusinessUnit: "001", Code: "NOORD", Name: "No order",
		ParentCode: "BS", AccountType: "A", StatementType: "BS",
	})
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, accounts, time.Hour))

	svc := NewTransformService(wsRepo, nil, zap.NewNop())

	check, err := svc.CountCheck(context.Background(), sessionID)
	require.NoError(t, err)

	assert.Equal(t, 7, check.InputRows)
	assert.Equal(t, 6, check.OutputRows)
	assert.Equal(t, 1, check.DroppedRows)
	assert.Equal(t, []string{"NOORD"}, check.DroppedCodes)
}
