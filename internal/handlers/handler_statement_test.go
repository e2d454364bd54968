package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

func sampleTrialBalance(asOf *time.Time) *domain.TrialBalance {
	return &domain.TrialBalance{
		OrganizationID: testActor.OrganizationID,
		AsOf:           asOf,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "acc-cash", Code: "1000", AccountName: "Cash", Classification: domain.Asset, NormalBalance: domain.NormalDebit,
				TotalDebit: 125050, DebitBalance: 125050},
			{AccountID: "acc-rev", Code: "4000", AccountName: "Sales", Classification: domain.Revenue, NormalBalance: domain.NormalCredit,
				TotalCredit: 125050, CreditBalance: 125050},
		},
		TotalDebitBalance:  125050,
		TotalCreditBalance: 125050,
	}
}

func (suite *HandlerTestSuite) TestTrialBalance_JSON() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.statements.On("GetTrialBalance", mock.Anything, testActor, &asOf).Return(sampleTrialBalance(&asOf), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/trial-balance?asOf=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	tb := decode[domain.TrialBalance](suite, w)
	suite.Len(tb.Rows, 2)
	suite.Equal(tb.TotalDebitBalance, tb.TotalCreditBalance)
	suite.Contains(w.Body.String(), `"totalDebitBalance":"1250.50"`)
}

func (suite *HandlerTestSuite) TestTrialBalance_XLSX() {
	suite.statements.On("GetTrialBalance", mock.Anything, testActor, (*time.Time)(nil)).Return(sampleTrialBalance(nil), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/trial-balance?format=xlsx", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "trial-balance.xlsx")

	f, err := excelize.OpenReader(w.Body)
	suite.Require().NoError(err)
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	cell := func(axis string) string {
		v, err := f.GetCellValue("Trial Balance", axis, raw)
		suite.Require().NoError(err)
		return v
	}
	suite.Equal("Trial Balance", cell("A1"))
	suite.Equal("As of all dates", cell("B1"))
	suite.Equal("Code", cell("A3"))
	suite.Equal("1000", cell("A4"))
	suite.Equal("1250.5", cell("D4"))
	suite.Equal("Sales", cell("B5"))
	suite.Equal("1250.5", cell("E5"))
	suite.Equal("Total", cell("B6"))
	suite.Equal("1250.5", cell("D6"))
}

func (suite *HandlerTestSuite) TestTrialBalance_UnknownFormat() {
	w := suite.do(http.MethodGet, "/api/v1/statements/trial-balance?format=pdf", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestIncomeStatement() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.statements.On("GenerateIncomeStatement", mock.Anything, testActor, start, end).Return(&domain.IncomeStatement{
		StartDate:     start,
		EndDate:       end,
		Revenue:       []domain.StatementLine{{Code: "4000", Name: "Sales", Amount: domain.NewAmount(1000)}},
		Expenses:      []domain.StatementLine{{Code: "6000", Name: "Rent", Amount: domain.NewAmount(400)}},
		TotalRevenue:  domain.NewAmount(1000),
		TotalExpenses: domain.NewAmount(400),
		NetIncome:     domain.NewAmount(600),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/income-statement?startDate=2024-01-01&endDate=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(domain.NewAmount(600), decode[domain.IncomeStatement](suite, w).NetIncome)
}

func (suite *HandlerTestSuite) TestIncomeStatement_BadRange() {
	for _, q := range []string{
		"?startDate=2024-03-31&endDate=2024-01-01",
		"?startDate=2024-01-01",
		"?startDate=2024-13-01&endDate=2024-12-31",
	} {
		w := suite.do(http.MethodGet, "/api/v1/statements/income-statement"+q, nil)
		suite.Equal(http.StatusBadRequest, w.Code, q)
	}
}

func (suite *HandlerTestSuite) TestBalanceSheet_DefaultsToToday() {
	suite.statements.On("GenerateBalanceSheet", mock.Anything, testActor, mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(domain.DateOnly(t)) && time.Since(t) < 48*time.Hour && time.Since(t) >= 0
	})).Return(&domain.BalanceSheet{AsOf: domain.DateOnly(time.Now())}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/balance-sheet", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestBalanceSheet_IntegrityFailureReturnsReport() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	report := &domain.BalanceSheet{AsOf: asOf, TotalAssets: domain.NewAmount(100), TotalLiabilities: domain.NewAmount(30), TotalEquity: domain.NewAmount(60)}
	suite.statements.On("GenerateBalanceSheet", mock.Anything, testActor, asOf).
		Return(report, apperrors.NewIntegrityError("assets $100.00 != liabilities $30.00 + equity $60.00")).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/balance-sheet?asOf=2024-03-31&format=xlsx", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := decode[map[string]any](suite, w)
	suite.Contains(body["error"], "assets $100.00")
	suite.Contains(body, "report")
}

func (suite *HandlerTestSuite) TestCashFlow_XLSX() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	suite.statements.On("GenerateCashFlowStatement", mock.Anything, testActor, start, end).Return(&domain.CashFlowStatement{
		StartDate:          start,
		EndDate:            end,
		NetIncome:          domain.NewAmount(600),
		NonCashAdjustments: []domain.StatementLine{{Code: "6080", Name: "Depreciation", Amount: domain.NewAmount(100)}},
		TotalOperating:     domain.NewAmount(700),
		Investing:          []domain.StatementLine{{Code: "1500", Name: "Equipment", Amount: domain.NewAmount(-500)}},
		TotalInvesting:     domain.NewAmount(-500),
		NetChange:          domain.NewAmount(200),
		CashBeginning:      domain.NewAmount(1000),
		CashEnding:         domain.NewAmount(1200),
		CashChange:         domain.NewAmount(200),
		Reconciled:         true,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/cash-flow?startDate=2024-01-01&endDate=2024-12-31&format=xlsx", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	f, err := excelize.OpenReader(w.Body)
	suite.Require().NoError(err)
	defer f.Close()

	rows, err := f.GetRows("Cash Flow", excelize.Options{RawCellValue: true})
	suite.Require().NoError(err)
	var labels []string
	for _, r := range rows {
		if len(r) > 1 {
			labels = append(labels, r[1])
		}
	}
	suite.Contains(labels, "Depreciation")
	suite.Contains(labels, "Net cash from investing activities")
	suite.Contains(labels, "Cash at end of period")
}

func (suite *HandlerTestSuite) TestStatement_ServiceErrors() {
	suite.statements.On("GetTrialBalance", mock.Anything, testActor, (*time.Time)(nil)).
		Return(nil, apperrors.NewAppError(500, "snapshot failed", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/statements/trial-balance", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to generate trial-balance", suite.errorMessage(w))
}
