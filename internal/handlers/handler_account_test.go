package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func cashAccount() *domain.Account {
	return &domain.Account{
		AccountID:      "acc-cash",
		OrganizationID: testActor.OrganizationID,
		Code:           "1000",
		Name:           "Cash",
		Classification: domain.Asset,
		NormalBalance:  domain.NormalDebit,
		IsActive:       true,
		Tags:           domain.AccountTags{IsCash: true},
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: "ASSET"}
	suite.accounts.On("CreateAccount", mock.Anything, testActor, req).Return(cashAccount(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	got := decode[domain.Account](suite, w)
	suite.Equal("acc-cash", got.AccountID)
	suite.Equal(domain.NormalDebit, got.NormalBalance)
	suite.True(got.Tags.IsCash)
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingErrors() {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"code":`},
		{"missing name", map[string]any{"code": "1000", "classification": "ASSET"}},
		{"unknown classification", map[string]any{"code": "1000", "name": "Cash", "classification": "CONTRA"}},
		{"code too long", map[string]any{"code": "123456789012345678901", "name": "Cash", "classification": "ASSET"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: "ASSET"}
	suite.accounts.On("CreateAccount", mock.Anything, testActor, req).
		Return(nil, apperrors.NewDuplicateError("account with code", "1000")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorMessage(w), "1000")
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accounts.On("GetAccountByID", mock.Anything, testActor, "missing").
		Return(nil, apperrors.NewNotFoundError("account", "missing")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_InternalErrorIsMasked() {
	suite.accounts.On("ListAccounts", mock.Anything, testActor).
		Return(nil, apperrors.NewAppError(500, "pool exhausted: dial tcp 10.0.0.5:5432", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to list accounts", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestListChildren() {
	child := cashAccount()
	child.ParentAccountID = new(string)
	*child.ParentAccountID = "acc-current-assets"
	suite.accounts.On("ListChildren", mock.Anything, testActor, "acc-current-assets").
		Return([]domain.Account{*child}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-current-assets/children", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[dto.ListAccountsResponse](suite, w)
	suite.Require().Len(resp.Accounts, 1)
	suite.Equal("acc-current-assets", *resp.Accounts[0].ParentAccountID)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_AsOf() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	asOfStr := "2024-03-31"
	suite.accounts.On("GetAccountBalance", mock.Anything, testActor, "acc-cash", &asOf).
		Return(&dto.AccountBalanceResponse{
			AccountID:     "acc-cash",
			Code:          "1000",
			NormalBalance: "DEBIT",
			AsOf:          &asOfStr,
			Balance:       decimal.RequireFromString("1250.50"),
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-cash/balance?asOf=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[dto.AccountBalanceResponse](suite, w)
	suite.True(decimal.RequireFromString("1250.50").Equal(resp.Balance))
}

func (suite *HandlerTestSuite) TestGetAccountBalance_AllTime() {
	suite.accounts.On("GetAccountBalance", mock.Anything, testActor, "acc-cash", (*time.Time)(nil)).
		Return(&dto.AccountBalanceResponse{AccountID: "acc-cash", Balance: decimal.Zero}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-cash/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-cash/balance?asOf=31-03-2024", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateAccountTags() {
	tags := domain.AccountTags{IsFixedAsset: true}
	updated := cashAccount()
	updated.Tags = tags
	suite.accounts.On("UpdateAccountTags", mock.Anything, testActor, "acc-cash", tags).Return(updated, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/accounts/acc-cash/tags", dto.UpdateAccountTagsRequest{Tags: tags})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(decode[domain.Account](suite, w).Tags.IsFixedAsset)
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.accounts.On("DeactivateAccount", mock.Anything, testActor, "acc-cash").Return(nil).Once()
	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-cash", nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount_WithActiveChildren() {
	suite.accounts.On("DeactivateAccount", mock.Anything, testActor, "acc-parent").
		Return(apperrors.NewStateConflictError("account %s has 2 active children", "acc-parent")).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-parent", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorMessage(w), "active children")
}
