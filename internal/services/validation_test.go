package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coa-service/internal/entities"
)

func TestValidateRulesCleanSet(t *testing.T) {
	violations := validateRules(sampleAccounts())
	assert.Empty(t, violations)
}

func TestValidateRulesTypeMismatch(t *testing.T) {
	accounts := []entities.Account{
		{BusinessUnit: "001", Code: "A1", AccountType: "A", StatementType: "PL", ParentCode: "PL"},
		{BusinessUnit: "001", Code: "R1", AccountType: "R", StatementType: "BS", ParentCode: "BS"},
	}

	violations := validateRules(accounts)

	rules := make(map[string][]string)
	for _, v := range violations {
		rules[v.Rule] = v.Codes
	}
	assert.Equal(t, []string{"A1"}, rules[RuleBalanceSheetTypes])
	assert.Equal(t, []string{"R1"}, rules[RuleProfitLossTypes])
}

func TestValidateRulesDuplicates(t *testing.T) {
	accounts := []entities.Account{
		{BusinessUnit: "001", Code: "A1", AccountType: "A", StatementType: "BS", ParentCode: "BS"},
		{BusinessUnit: "001", Code: "A1", AccountType: "A", StatementType: "BS", ParentCode: "BS"},
		// The same code in another business unit is allowed.
		{BusinessUnit: "002", Code: "A1", AccountType: "A", StatementType: "BS", ParentCode: "BS"},
	}

	violations := validateRules(accounts)

	require.Len(t, violations, 1)
	assert.Equal(t, RuleDuplicateCodes, violations[0].Rule)
	assert.Equal(t, []string{"001/A1"}, violations[0].Codes)
}

func TestValidateRulesOrphanedParents(t *testing.T) {
	accounts := []entities.Account{
		{BusinessUnit: "001", Code: "A1", AccountType: "A", StatementType: "BS", ParentCode: "BS"},
		{BusinessUnit: "001", Code: "A2", AccountType: "A", StatementType: "BS", ParentCode: "GHOST"},
	}

	violations := validateRules(accounts)

	require.Len(t, violations, 1)
	assert.Equal(t, RuleOrphanedParents, violations[0].Rule)
	assert.Equal(t, []string{"GHOST"}, violations[0].Codes)
}

func TestAccountTypeMatchesStatement(t *testing.T) {
	assert.NoError(t, accountTypeMatchesStatement("A", "BS"))
	assert.NoError(t, accountTypeMatchesStatement("P", "BS"))
	assert.NoError(t, accountTypeMatchesStatement("R", "PL"))
	assert.NoError(t, accountTypeMatchesStatement("C", "PL"))
	assert.Error(t, accountTypeMatchesStatement("R", "BS"))
	assert.Error(t, accountTypeMatchesStatement("A", "PL"))
}
