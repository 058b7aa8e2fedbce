package services

import (
	"fmt"
	"sort"

	"coa-service/internal/dto"
	"coa-service/internal/entities"
)

// Business-rule identifiers reported by the validation pass.
const (
	RuleBalanceSheetTypes = "balance_sheet_account_types"
	RuleProfitLossTypes   = "profit_loss_account_types"
	RuleDuplicateCodes    = "duplicate_codes"
	RuleOrphanedParents   = "orphaned_parents"
)

// accountTypeMatchesStatement checks the type/statement pairing for one account.
func accountTypeMatchesStatement(accountType, statementType string) error {
	switch statementType {
	case entities.StatementBalanceSheet:
		if accountType != entities.AccountTypeAsset && accountType != entities.AccountTypeLiability {
			return fmt.Errorf("balance sheet accounts must have account type A (assets) or P (liabilities/equity)")
		}
	case entities.StatementProfitLoss:
		if accountType != entities.AccountTypeRevenue && accountType != entities.AccountTypeCost {
			return fmt.Errorf("profit & loss accounts must have account type R (revenue) or C (cost)")
		}
	}
	return nil
}

// validateRules runs the whole-set validation pass and returns the violations.
func validateRules(accounts []entities.Account) []dto.ViolationDTO {
	violations := make([]dto.ViolationDTO, 0)

	var bsCodes, plCodes []string
	for _, a := range accounts {
		isBalanceType := a.AccountType == entities.AccountTypeAsset || a.AccountType == entities.AccountTypeLiability
		isProfitType := a.AccountType == entities.AccountTypeRevenue || a.AccountType == entities.AccountTypeCost

		if isBalanceType && a.StatementType != entities.StatementBalanceSheet {
			bsCodes = append(bsCodes, a.Code)
		}
		if isProfitType && a.StatementType != entities.StatementProfitLoss {
			plCodes = append(plCodes, a.Code)
		}
	}
	if len(bsCodes) > 0 {
		violations = append(violations, dto.ViolationDTO{
			Rule:    RuleBalanceSheetTypes,
			Message: fmt.Sprintf("balance sheet accounts (A, P) must have statement type 'BS'; found %d violations", len(bsCodes)),
			Codes:   bsCodes,
			Count:   len(bsCodes),
		})
	}
	if len(plCodes) > 0 {
		violations = append(violations, dto.ViolationDTO{
			Rule:    RuleProfitLossTypes,
			Message: fmt.Sprintf("profit & loss accounts (R, C) must have statement type 'PL'; found %d violations", len(plCodes)),
			Codes:   plCodes,
			Count:   len(plCodes),
		})
	}

	type unitCode struct {
		unit string
		code string
	}
	seen := make(map[unitCode]int)
	for _, a := range accounts {
		seen[unitCode{a.BusinessUnit, a.Code}]++
	}
	var duplicates []string
	for key, n := range seen {
		if n > 1 {
			duplicates = append(duplicates, key.unit+"/"+key.code)
		}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		violations = append(violations, dto.ViolationDTO{
			Rule:    RuleDuplicateCodes,
			Message: fmt.Sprintf("duplicate account codes found within business units: %v", duplicates),
			Codes:   duplicates,
			Count:   len(duplicates),
		})
	}

	codes := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		codes[a.Code] = struct{}{}
	}
	var orphaned []string
	seenOrphan := make(map[string]struct{})
	for _, a := range accounts {
		p := a.ParentCode
		if p == "" || p == entities.StatementBalanceSheet || p == entities.StatementProfitLoss {
			continue
		}
		if _, ok := codes[p]; !ok {
			if _, dup := seenOrphan[p]; !dup {
				seenOrphan[p] = struct{}{}
				orphaned = append(orphaned, p)
			}
		}
	}
	if len(orphaned) > 0 {
		sort.Strings(orphaned)
		violations = append(violations, dto.ViolationDTO{
			Rule:    RuleOrphanedParents,
			Message: fmt.Sprintf("orphaned parent references found: %v", orphaned),
			Codes:   orphaned,
			Count:   len(orphaned),
		})
	}

	return violations
}
