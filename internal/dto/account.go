package dto

import (
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to add an account to the chart.
// The normal balance is derived from the classification.
type CreateAccountRequest struct {
	Code            string              `json:"code" binding:"required,max=20"`
	Name            string              `json:"name" binding:"required,max=255"`
	Classification  string              `json:"classification" binding:"required,classification"`
	ParentAccountID *string             `json:"parentAccountID,omitempty"`
	Description     string              `json:"description" binding:"max=1000"`
	Tags            *domain.AccountTags `json:"tags,omitempty"`
}

// UpdateAccountTagsRequest replaces the cash flow tags of an account.
type UpdateAccountTagsRequest struct {
	Tags domain.AccountTags `json:"tags"`
}

// AccountBalanceResponse is the signed balance of an account.
type AccountBalanceResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	NormalBalance string          `json:"normalBalance"`
	AsOf          *string         `json:"asOf,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsRollup      bool            `json:"isRollup"`
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}
