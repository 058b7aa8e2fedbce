package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coa-service/internal/entities"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/service"
)

const testCOATable = "in.c-coa.TEST"

func coaTableRecords() []map[string]string {
	return []map[string]string{
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "A1",
			"NAME_FIN_STAT": "Assets", "CODE_PARENT_FIN_STAT": "BS",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
		{
			"FK_BUSINESS_UNIT": "001", "NUM_FIN_STAT_ORDER": "1000", "CODE_FIN_STAT": "A11",
			"NAME_FIN_STAT": "Cash", "CODE_PARENT_FIN_STAT": "A1",
			"TYPE_ACCOUNT": "A", "TYPE_FIN_STATEMENT": "BS",
		},
		{
			"FK_BUSINESS_UNIT": "", "NUM_FIN_STAT_ORDER": "not-a-number", "CODE_FIN_STAT": "R1",
			"NAME_FIN_STAT": "Revenue", "CODE_PARENT_FIN_STAT": "PL",
			"TYPE_ACCOUNT": "r", "TYPE_FIN_STATEMENT": "pl",
		},
	}
}

func newTestSessionService(t *testing.T) (SessionServiceInterface, *fakeWorkingSetRepo, *fakeStorage) {
	t.Helper()

	storage := &fakeStorage{tables: map[string][]map[string]string{
		testCOATable: coaTableRecords(),
	}}
	wsRepo := newFakeWorkingSetRepo()
	tokens := service.NewTokenService("test-secret", time.Hour)
	svc := NewSessionService(storage, wsRepo, &fakeJournal{}, tokens, testCOATable, time.Hour, zap.NewNop())
	return svc, wsRepo, storage
}

func TestOpenSessionNormalizesRecords(t *testing.T) {
	svc, wsRepo, _ := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Open(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 3, session.RowCount)
	assert.False(t, session.UnsavedChanges)
	assert.Equal(t, testCOATable, session.SourceTableID)

	accounts, err := wsRepo.GetAccounts(ctx, session.SessionID)
	require.NoError(t, err)

	byCode := make(map[string]entities.Account)
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	// Blank business unit defaults, types are uppercased, bad orders dropped.
	r1 := byCode["R1"]
	assert.Equal(t, entities.DefaultBusinessUnit, r1.BusinessUnit)
	assert.Equal(t, "R", r1.AccountType)
	assert.Equal(t, "PL", r1.StatementType)
	assert.Nil(t, r1.Order)

	assert.Equal(t, 1, byCode["A11"].Level)
}

func TestOpenSessionTokenRoundTrip(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	session, err := svc.Open(context.Background())
	require.NoError(t, err)

	tokens := service.NewTokenService("test-secret", time.Hour)
	claims, err := tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, claims.SessionID)
}

func TestSaveSessionWritesFullTable(t *testing.T) {
	svc, wsRepo, storage := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Open(ctx)
	require.NoError(t, err)

	meta, err := wsRepo.GetMeta(ctx, session.SessionID)
	require.NoError(t, err)
	meta.Dirty = true
	require.NoError(t, wsRepo.SaveMeta(ctx, *meta, time.Hour))

	result, err := svc.Save(ctx, session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, testCOATable, result.TableID)
	assert.Equal(t, 3, result.RowCount)
	assert.Equal(t, testCOATable, storage.writtenTable)
	assert.Equal(t, entities.AccountColumns, storage.writtenCols)
	assert.Len(t, storage.writtenRows, 3)

	meta, err = wsRepo.GetMeta(ctx, session.SessionID)
	require.NoError(t, err)
	assert.False(t, meta.Dirty)
}

func TestRefreshBlockedByUnsavedChanges(t *testing.T) {
	svc, wsRepo, _ := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Open(ctx)
	require.NoError(t, err)

	meta, err := wsRepo.GetMeta(ctx, session.SessionID)
	require.NoError(t, err)
	meta.Dirty = true
	require.NoError(t, wsRepo.SaveMeta(ctx, *meta, time.Hour))

	_, err = svc.Refresh(ctx, session.SessionID, false)
	assert.ErrorIs(t, err, apperrors.ErrUnsavedChanges)

	refreshed, err := svc.Refresh(ctx, session.SessionID, true)
	require.NoError(t, err)
	assert.False(t, refreshed.UnsavedChanges)
}

func TestCloseSession(t *testing.T) {
	svc, wsRepo, _ := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx, session.SessionID))

	_, err = wsRepo.GetAccounts(ctx, session.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestAccountToRowRoundTrip(t *testing.T) {
	order := 1500
	account := entities.Account{
		BusinessUnit:  "001",
		Order:         &order,
		Code:          "A1",
		Name:          "Assets",
		ParentCode:    "BS",
		AccountType:   "A",
		StatementType: "BS",
		NameEng:       "Assets",
		CentralCode:   "C-1",
	}

	row := accountToRow(account)

	require.Len(t, row, len(entities.AccountColumns))
	assert.Equal(t, []string{"001", "1500", "A1", "Assets", "BS", "A", "BS", "Assets", "C-1"}, row)
}
