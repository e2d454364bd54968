package handlers_test

import (
	"net/http"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateBudget() {
	suite.budgets.On("CreateBudget", mock.Anything, testActor, mock.MatchedBy(func(r dto.CreateBudgetRequest) bool {
		return r.FiscalYear == 2024 && r.PeriodType == "QUARTERLY" && r.TotalAmount.Equal(decimal.NewFromInt(40000))
	})).Return(&domain.Budget{
		BudgetID:     "bud-1",
		DepartmentID: "dept-ops",
		FiscalYear:   2024,
		PeriodType:   domain.BudgetQuarterly,
		TotalAmount:  domain.NewAmount(40000),
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/budgets", map[string]any{
		"departmentID": "dept-ops",
		"fiscalYear":   2024,
		"periodType":   "QUARTERLY",
		"totalAmount":  "40000",
		"lines": []map[string]any{
			{"glAccountID": "acc-travel", "q1Amount": "10000", "q2Amount": "10000", "q3Amount": "10000", "q4Amount": "10000"},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal(domain.NewAmount(40000), decode[domain.Budget](suite, w).TotalAmount)
}

func (suite *HandlerTestSuite) TestCreateBudget_InvalidPeriodType() {
	w := suite.do(http.MethodPost, "/api/v1/budgets", map[string]any{
		"departmentID": "dept-ops",
		"fiscalYear":   2024,
		"periodType":   "MONTHLY",
		"totalAmount":  "100",
		"lines":        []map[string]any{{"glAccountID": "acc-travel"}},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetBudgetVariance() {
	suite.budgets.On("GetBudgetVariance", mock.Anything, testActor, "bud-1").Return(&domain.BudgetVariance{
		BudgetID: "bud-1",
		Rows: []domain.BudgetVarianceRow{
			{GLAccountID: "acc-travel", Allocated: domain.NewAmount(40000), Actual: domain.NewAmount(42000), Variance: domain.NewAmount(-2000)},
		},
		TotalAllocated: domain.NewAmount(40000),
		TotalActual:    domain.NewAmount(42000),
		TotalVariance:  domain.NewAmount(-2000),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/budgets/bud-1/variance", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(domain.NewAmount(-2000), decode[domain.BudgetVariance](suite, w).TotalVariance)
}

func (suite *HandlerTestSuite) TestGetBudget_NotFound() {
	suite.budgets.On("GetBudget", mock.Anything, testActor, "bud-x").Return(nil, apperrors.NewNotFoundError("budget", "bud-x")).Once()
	w := suite.do(http.MethodGet, "/api/v1/budgets/bud-x", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
