package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/stretchr/testify/mock"
)

func march2024(closed bool) *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		PeriodID:       "per-2024-03",
		OrganizationID: testActor.OrganizationID,
		Name:           "March 2024",
		StartDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		IsClosed:       closed,
	}
}

func (suite *HandlerTestSuite) TestCreatePeriod() {
	req := dto.CreatePeriodRequest{Name: "March 2024", StartDate: "2024-03-01", EndDate: "2024-03-31"}
	suite.periods.On("CreatePeriod", mock.Anything, testActor, req).Return(march2024(false), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods", req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.False(decode[domain.FiscalPeriod](suite, w).IsClosed)
}

func (suite *HandlerTestSuite) TestCreatePeriod_Overlap() {
	req := dto.CreatePeriodRequest{Name: "Q1", StartDate: "2024-01-01", EndDate: "2024-03-31"}
	suite.periods.On("CreatePeriod", mock.Anything, testActor, req).
		Return(nil, apperrors.NewValidationError("period overlaps March 2024")).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods", req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListPeriods() {
	suite.periods.On("ListPeriods", mock.Anything, testActor).Return([]domain.FiscalPeriod{*march2024(true)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[map[string][]domain.FiscalPeriod](suite, w)
	suite.Require().Len(resp["periods"], 1)
	suite.True(resp["periods"][0].IsClosed)
}

func (suite *HandlerTestSuite) TestClosePeriod() {
	suite.periods.On("ClosePeriod", mock.Anything, testActor, "per-2024-03").Return(march2024(true), nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/periods/per-2024-03/close", nil)
	suite.Equal(http.StatusOK, w.Code)

	suite.periods.On("ClosePeriod", mock.Anything, testActor, "per-2024-03").
		Return(nil, apperrors.NewStateConflictError("period per-2024-03 is already closed")).Once()
	w = suite.do(http.MethodPost, "/api/v1/periods/per-2024-03/close", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestReopenPeriod_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/periods/per-2024-03/reopen", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.periods.On("ReopenPeriod", mock.Anything, testActor, "per-2024-03", "audit adjustment").Return(march2024(false), nil).Once()
	w = suite.do(http.MethodPost, "/api/v1/periods/per-2024-03/reopen", dto.ReopenPeriodRequest{Reason: "audit adjustment"})
	suite.Equal(http.StatusOK, w.Code)
}
