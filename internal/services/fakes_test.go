package services

import (
	"context"
	"time"

	"coa-service/internal/entities"
	apperrors "coa-service/pkg/errors"
)

// fakeWorkingSetRepo keeps working sets in memory for service tests.
type fakeWorkingSetRepo struct {
	accounts map[string][]entities.Account
	meta     map[string]entities.SessionMeta
}

func newFakeWorkingSetRepo() *fakeWorkingSetRepo {
	return &fakeWorkingSetRepo{
		accounts: make(map[string][]entities.Account),
		meta:     make(map[string]entities.SessionMeta),
	}
}

func (f *fakeWorkingSetRepo) SaveAccounts(_ context.Context, sessionID string, accounts []entities.Account, _ time.Duration) error {
	f.accounts[sessionID] = append([]entities.Account(nil), accounts...)
	return nil
}

func (f *fakeWorkingSetRepo) GetAccounts(_ context.Context, sessionID string) ([]entities.Account, error) {
	accounts, ok := f.accounts[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return append([]entities.Account(nil), accounts...), nil
}

func (f *fakeWorkingSetRepo) SaveMeta(_ context.Context, meta entities.SessionMeta, _ time.Duration) error {
	f.meta[meta.SessionID] = meta
	return nil
}

func (f *fakeWorkingSetRepo) GetMeta(_ context.Context, sessionID string) (*entities.SessionMeta, error) {
	meta, ok := f.meta[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return &meta, nil
}

func (f *fakeWorkingSetRepo) Delete(_ context.Context, sessionID string) error {
	delete(f.accounts, sessionID)
	delete(f.meta, sessionID)
	return nil
}

// fakeJournal records journal calls without touching Postgres.
type fakeJournal struct {
	actions []string
	codes   []string
}

func (f *fakeJournal) Record(_ context.Context, _ string, action string, account entities.Account,
	_, _ map[string]interface{}) error {
	f.actions = append(f.actions, action)
	f.codes = append(f.codes, account.Code)
	return nil
}

// fakeStorage is an in-memory stand-in for the Keboola Storage API.
type fakeStorage struct {
	tables       map[string][]map[string]string
	writtenTable string
	writtenRows  [][]string
	writtenCols  []string
}

func (f *fakeStorage) ReadTable(_ context.Context, tableID string) ([]map[string]string, error) {
	return f.tables[tableID], nil
}

func (f *fakeStorage) WriteTable(_ context.Context, tableID string, header []string, rows [][]string) error {
	f.writtenTable = tableID
	f.writtenCols = header
	f.writtenRows = rows
	return nil
}

// fakeCache is an in-memory CacheRepositoryInterface without expiry.
type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", apperrors.ErrNotFound
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func intPtr(v int) *int { return &v }

// sampleAccounts is a small two-statement chart used across tests.
func sampleAccounts() []entities.Account {
	return []entities.Account{
		{BusinessUnit: "001", Code: "A1", Name: "Assets", ParentCode: "BS", AccountType: "A", StatementType: "BS", Order: intPtr(1000)},
		{BusinessUnit: "001", Code: "A11", Name: "Cash", ParentCode: "A1", AccountType: "A", StatementType: "BS", Order: intPtr(1000)},
		{BusinessUnit: "001", Code: "A12", Name: "Receivables", ParentCode: "A1", AccountType: "A", StatementType: "BS", Order: intPtr(1100)},
		{BusinessUnit: "001", Code: "P1", Name: "Liabilities", ParentCode: "BS", AccountType: "P", StatementType: "BS", Order: intPtr(2000)},
		{BusinessUnit: "001", Code: "R1", Name: "Revenue", ParentCode: "PL", AccountType: "R", StatementType: "PL", Order: intPtr(1000)},
		{BusinessUnit: "001", Code: "C1", Name: "Costs", ParentCode: "PL", AccountType: "C", StatementType: "PL", Order: intPtr(2000)},
	}
}
