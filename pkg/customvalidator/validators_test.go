package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountPayload struct {
	Code          string `validate:"coa_code"`
	AccountType   string `validate:"account_type"`
	StatementType string `validate:"statement_type"`
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestAccountCodeValidation(t *testing.T) {
	v := newTestValidator(t)

	valid := []string{"A1", "1000", "A1.2-X_3", "Z"}
	for _, code := range valid {
		err := v.Struct(accountPayload{Code: code, AccountType: "A", StatementType: "BS"})
		assert.NoError(t, err, "code %q should be valid", code)
	}

	invalid := []string{"", "a1", ".A1", "A 1", "A1!"}
	for _, code := range invalid {
		err := v.Struct(accountPayload{Code: code, AccountType: "A", StatementType: "BS"})
		assert.Error(t, err, "code %q should be rejected", code)
	}
}

func TestAccountTypeValidation(t *testing.T) {
	v := newTestValidator(t)

	for _, accountType := range []string{"A", "P", "R", "C"} {
		err := v.Struct(accountPayload{Code: "A1", AccountType: accountType, StatementType: "BS"})
		assert.NoError(t, err, "type %q should be valid", accountType)
	}

	err := v.Struct(accountPayload{Code: "A1", AccountType: "X", StatementType: "BS"})
	assert.Error(t, err)
}

func TestStatementTypeValidation(t *testing.T) {
	v := newTestValidator(t)

	for _, statement := range []string{"BS", "PL"} {
		err := v.Struct(accountPayload{Code: "A1", AccountType: "A", StatementType: statement})
		assert.NoError(t, err, "statement %q should be valid", statement)
	}

	err := v.Struct(accountPayload{Code: "A1", AccountType: "A", StatementType: "XX"})
	assert.Error(t, err)
}

func TestDateIDValidation(t *testing.T) {
	v := newTestValidator(t)

	type window struct {
		From string `validate:"dateid"`
	}

	assert.NoError(t, v.Struct(window{From: "20000101"}))
	assert.Error(t, v.Struct(window{From: "2000-01-01"}))
	assert.Error(t, v.Struct(window{From: "20001301"}))
}
