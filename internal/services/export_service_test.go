package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
	apperrors "coa-service/pkg/errors"
)

func newTestExportService(t *testing.T) (ExportServiceInterface, *fakeWorkingSetRepo, string) {
	t.Helper()

	wsRepo := newFakeWorkingSetRepo()
	sessionID := "export-session"
	require.NoError(t, wsRepo.SaveAccounts(context.Background(), sessionID, sampleAccounts(), time.Hour))
	require.NoError(t, wsRepo.SaveMeta(context.Background(), entities.SessionMeta{
		SessionID: sessionID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, time.Hour))

	return NewExportService(wsRepo, &fakeJournal{}, zap.NewNop()), wsRepo, sessionID
}

func TestExportRows(t *testing.T) {
	svc, _, sessionID := newTestExportService(t)

	header, rows, err := svc.ExportRows(context.Background(), sessionID, "", nil)
	require.NoError(t, err)

	assert.Equal(t, entities.AccountColumns, header)
	require.Len(t, rows, 6)
	// BS rows by order come first.
	assert.Equal(t, "A1", rows[0][2])
	assert.Equal(t, "C1", rows[5][2])
}

func TestExportRowsColumnSubset(t *testing.T) {
	svc, _, sessionID := newTestExportService(t)

	header, rows, err := svc.ExportRows(context.Background(), sessionID, "",
		[]string{"CODE_FIN_STAT", "name_fin_stat"})
	require.NoError(t, err)

	assert.Equal(t, []string{"CODE_FIN_STAT", "NAME_FIN_STAT"}, header)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"A1", "Assets"}, rows[0])
}

func TestExportRowsRejectsUnknownColumn(t *testing.T) {
	svc, _, sessionID := newTestExportService(t)

	_, _, err := svc.ExportRows(context.Background(), sessionID, "", []string{"NO_SUCH_COLUMN"})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestTemplateRows(t *testing.T) {
	svc, _, _ := newTestExportService(t)

	header, rows := svc.TemplateRows(dto.TemplateRequestDTO{})

	assert.Equal(t, entities.AccountColumns, header)
	require.Len(t, rows, 4)
	assert.Equal(t, entities.DefaultBusinessUnit, rows[0][0])

	header, rows = svc.TemplateRows(dto.TemplateRequestDTO{
		BusinessUnit: "001",
		AccountTypes: []string{"A", "R"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "001", rows[0][0])
	assert.Equal(t, "A", rows[0][5])
	assert.Equal(t, "R", rows[1][5])
}

func TestImportValidateModeDoesNotApply(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "NEW1",
			"NAME_FIN_STAT": "New root", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeValidate)
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Empty(t, result.Violations)
	assert.Equal(t, 1, result.RowCount)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, accounts, 6)
}

func TestImportReplaceMode(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "NEW1",
			"NAME_FIN_STAT": "New root", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "NEW11",
			"NAME_FIN_STAT": "New child", "CODE_PARENT_FIN_STAT": "NEW1",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeReplace)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, 1, accounts[1].Level)

	meta, err := wsRepo.GetMeta(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, meta.Dirty)
}

func TestImportReplaceBlockedByViolations(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "CODE_FIN_STAT": "BAD1", "NAME_FIN_STAT": "Wrong type",
			"CODE_PARENT_FIN_STAT": "BS", "TYPE_ACCOUNT": "R", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeReplace)
	require.NoError(t, err)

	assert.False(t, result.Applied)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, RuleProfitLossTypes, result.Violations[0].Rule)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, accounts, 6)
}

func TestImportAppendMode(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "3000", "CODE_FIN_STAT": "NEW1",
			"NAME_FIN_STAT": "New root", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeAppend)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 1, result.RowCount)
	assert.Equal(t, 7, result.ResultRows)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, accounts, 7)
}

func TestImportAppendBlockedByDuplicate(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	// A1 already exists in unit 001; appending it again is a rule violation.
	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "9000", "CODE_FIN_STAT": "A1",
			"NAME_FIN_STAT": "Assets again", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeAppend)
	require.NoError(t, err)

	assert.False(t, result.Applied)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, RuleDuplicateCodes, result.Violations[0].Rule)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, accounts, 6)
}

func TestImportUpdateModeUpserts(t *testing.T) {
	svc, wsRepo, sessionID := newTestExportService(t)
	ctx := context.Background()

	records := []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "A1",
			"NAME_FIN_STAT": "Assets renamed", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "3000", "CODE_FIN_STAT": "NEW1",
			"NAME_FIN_STAT": "New root", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
	}

	result, err := svc.Import(ctx, sessionID, records, dto.ImportModeUpdate)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 7, result.ResultRows)

	accounts, err := wsRepo.GetAccounts(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, accounts, 7)
	assert.Equal(t, "Assets renamed", accounts[0].Name)
	assert.Equal(t, "NEW1", accounts[6].Code)
}

func TestImportRejectsUnknownMode(t *testing.T) {
	svc, _, sessionID := newTestExportService(t)

	_, err := svc.Import(context.Background(), sessionID, []map[string]string{{"CODE_FIN_STAT": "X"}}, "merge")

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}
