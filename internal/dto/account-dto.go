package dto

import (
	"github.com/aarondl/null/v8"

	"coa-service/internal/entities"
)

// CreateAccountDTO: what the client sends to add an account.
type CreateAccountDTO struct {
	BusinessUnit  string      `json:"business_unit" validate:"omitempty,min=1"`
	Code          string      `json:"code" validate:"required,coa_code"`
	Name          string      `json:"name" validate:"required,min=1"`
	NameEng       null.String `json:"name_eng"`
	ParentCode    string      `json:"parent_code" validate:"omitempty"`
	AccountType   string      `json:"account_type" validate:"required,account_type"`
	StatementType string      `json:"statement_type" validate:"required,statement_type"`
	Order         null.Int    `json:"order"`
	CentralCode   null.String `json:"central_code"`
}

// UpdateAccountDTO: partial update; null distinguishes "clear" from "absent".
type UpdateAccountDTO struct {
	BusinessUnit  *string     `json:"business_unit,omitempty" validate:"omitempty,min=1"`
	Code          *string     `json:"code,omitempty" validate:"omitempty,coa_code"`
	Name          *string     `json:"name,omitempty" validate:"omitempty,min=1"`
	NameEng       null.String `json:"name_eng"`
	ParentCode    null.String `json:"parent_code"`
	AccountType   *string     `json:"account_type,omitempty" validate:"omitempty,account_type"`
	StatementType *string     `json:"statement_type,omitempty" validate:"omitempty,statement_type"`
	Order         null.Int    `json:"order"`
	CentralCode   null.String `json:"central_code"`
}

// AccountDTO: what the server returns for one account.
type AccountDTO struct {
	BusinessUnit  string `json:"business_unit"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	NameEng       string `json:"name_eng,omitempty"`
	ParentCode    string `json:"parent_code,omitempty"`
	AccountType   string `json:"account_type"`
	StatementType string `json:"statement_type"`
	Order         *int   `json:"order"`
	CentralCode   string `json:"central_code,omitempty"`
	Level         int    `json:"level"`
}

func AccountToDTO(a entities.Account) AccountDTO {
	return AccountDTO{
		BusinessUnit:  a.BusinessUnit,
		Code:          a.Code,
		Name:          a.Name,
		NameEng:       a.NameEng,
		ParentCode:    a.ParentCode,
		AccountType:   a.AccountType,
		StatementType: a.StatementType,
		Order:         a.Order,
		CentralCode:   a.CentralCode,
		Level:         a.Level,
	}
}

func AccountsToDTO(accounts []entities.Account) []AccountDTO {
	out := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountToDTO(a))
	}
	return out
}

// TreeNodeDTO is one node of the drill-down hierarchy view.
type TreeNodeDTO struct {
	Account  AccountDTO    `json:"account"`
	Children []TreeNodeDTO `json:"children"`
}

// NextOrderDTO carries the suggested order for a new child.
type NextOrderDTO struct {
	ParentCode string `json:"parent_code"`
	NextOrder  int    `json:"next_order"`
}

// ViolationDTO is one business-rule violation found by the validation pass.
type ViolationDTO struct {
	Rule    string   `json:"rule"`
	Message string   `json:"message"`
	Codes   []string `json:"codes,omitempty"`
	Count   int      `json:"count"`
}
