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

func draftEntry(id string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalEntryID: id,
		OrganizationID: testActor.OrganizationID,
		EntryNumber:    "JE-2024-000001",
		Description:    "Office supplies",
		Date:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusDraft,
		Lines: []domain.JournalLine{
			{LineID: "l1", JournalEntryID: id, GLAccountID: "acc-supplies", Debit: domain.NewAmount(250)},
			{LineID: "l2", JournalEntryID: id, GLAccountID: "acc-cash", Credit: domain.NewAmount(250)},
		},
		AuditFields: domain.AuditFields{CreatedBy: testActor.UserID, LastUpdatedBy: testActor.UserID},
	}
}

func withStatus(e *domain.JournalEntry, s domain.JournalStatus) *domain.JournalEntry {
	e.Status = s
	return e
}

func createEntryBody() map[string]any {
	return map[string]any{
		"description": "Office supplies",
		"date":        "2024-03-15",
		"lines": []map[string]any{
			{"accountID": "acc-supplies", "debit": "250.00"},
			{"accountID": "acc-cash", "credit": "250.00"},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Success() {
	suite.journals.On("CreateJournalEntry", mock.Anything, testActor, mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
		return r.Date == "2024-03-15" && len(r.Lines) == 2 &&
			r.Lines[0].Debit.Equal(decimal.NewFromInt(250)) && r.Lines[1].Credit.Equal(decimal.NewFromInt(250))
	})).Return(draftEntry("je-1"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", createEntryBody())

	suite.Equal(http.StatusCreated, w.Code)
	resp := decode[dto.JournalEntryResponse](suite, w)
	suite.Equal("je-1", resp.JournalEntryID)
	suite.Equal("2024-03-15", resp.Date)
	suite.Equal("DRAFT", resp.Status)
	suite.True(resp.TotalDebit.Equal(resp.TotalCredit))
	suite.Len(resp.Lines, 2)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_BindingErrors() {
	oneLine := createEntryBody()
	oneLine["lines"] = []map[string]any{{"accountID": "acc-cash", "debit": "10"}}

	badDate := createEntryBody()
	badDate["date"] = "15/03/2024"

	subCent := createEntryBody()
	subCent["lines"] = []map[string]any{
		{"accountID": "acc-supplies", "debit": "0.001"},
		{"accountID": "acc-cash", "credit": "0.001"},
	}

	negative := createEntryBody()
	negative["lines"] = []map[string]any{
		{"accountID": "acc-supplies", "debit": "-5"},
		{"accountID": "acc-cash", "credit": "-5"},
	}

	tests := []struct {
		name string
		body any
	}{
		{"single line", oneLine},
		{"bad date", badDate},
		{"sub-cent amount", subCent},
		{"negative amount", negative},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/journal-entries", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Unbalanced() {
	suite.journals.On("CreateJournalEntry", mock.Anything, testActor, mock.Anything).
		Return(nil, apperrors.NewValidationError("entry is unbalanced: debits $250.00, credits $200.00")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", createEntryBody())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("entry is unbalanced: debits $250.00, credits $200.00", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestListJournalEntries_DefaultsLimit() {
	next := "token-2"
	suite.journals.On("ListJournalEntries", mock.Anything, testActor, dto.ListJournalEntriesParams{Status: "POSTED", Limit: 20}).
		Return([]domain.JournalEntry{*withStatus(draftEntry("je-1"), domain.StatusPosted)}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?status=POSTED", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[dto.ListJournalEntriesResponse](suite, w)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListJournalEntries_InvalidQuery() {
	for _, q := range []string{"?status=VOID", "?limit=500", "?limit=abc"} {
		w := suite.do(http.MethodGet, "/api/v1/journal-entries"+q, nil)
		suite.Equal(http.StatusBadRequest, w.Code, q)
	}
}

func (suite *HandlerTestSuite) TestGetJournalEntry_OtherOrganization() {
	suite.journals.On("GetJournalEntry", mock.Anything, testActor, "je-foreign").
		Return(nil, apperrors.NewNotFoundError("journal entry", "je-foreign")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/je-foreign", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSubmitJournalEntry_StartsWorkflow() {
	instance := &domain.WorkflowInstance{
		InstanceID:   "wf-1",
		ResourceType: domain.ResourceJournalEntry,
		ResourceID:   "je-1",
		CurrentStep:  1,
		Status:       domain.InstanceInProgress,
	}
	suite.journals.On("SubmitJournalEntry", mock.Anything, testActor, "je-1").
		Return(withStatus(draftEntry("je-1"), domain.StatusPendingApproval), instance, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/submit", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[map[string]map[string]any](suite, w)
	suite.Equal("PENDING_APPROVAL", resp["entry"]["status"])
	suite.Equal("wf-1", resp["workflow"]["instanceID"])
}

func (suite *HandlerTestSuite) TestSubmitJournalEntry_WithoutTemplate() {
	suite.journals.On("SubmitJournalEntry", mock.Anything, testActor, "je-1").
		Return(withStatus(draftEntry("je-1"), domain.StatusPendingApproval), nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/submit", nil)

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[map[string]any](suite, w)
	suite.NotContains(resp, "workflow")
}

func (suite *HandlerTestSuite) TestApproveJournalEntry_Forbidden() {
	suite.journals.On("ApproveJournalEntry", mock.Anything, testActor, "je-1").
		Return(nil, apperrors.NewForbiddenError("role %s may not approve journal entries directly", "clerk")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/approve", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestRejectJournalEntry() {
	suite.Run("with reason", func() {
		suite.journals.On("RejectJournalEntry", mock.Anything, testActor, "je-1", "duplicate invoice").
			Return(withStatus(draftEntry("je-1"), domain.StatusRejected), nil).Once()
		w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/reject", dto.RejectJournalEntryRequest{Reason: "duplicate invoice"})
		suite.Equal(http.StatusOK, w.Code)
	})
	suite.Run("empty body", func() {
		suite.journals.On("RejectJournalEntry", mock.Anything, testActor, "je-2", "").
			Return(withStatus(draftEntry("je-2"), domain.StatusRejected), nil).Once()
		w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-2/reject", nil)
		suite.Equal(http.StatusOK, w.Code)
	})
}

func (suite *HandlerTestSuite) TestPostJournalEntry() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"closed period", apperrors.NewPeriodClosedError("org-1", "2024-03-15"), http.StatusLocked},
		{"not approved", apperrors.NewStateConflictError("cannot post a journal entry in status DRAFT"), http.StatusConflict},
		{"inactive account", apperrors.NewValidationError("account acc-old is inactive"), http.StatusBadRequest},
		{"database down", apperrors.NewAppError(500, "connection refused", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.journals.On("PostJournalEntry", mock.Anything, testActor, "je-1").Return(nil, tt.err).Once()
			w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/post", nil)
			suite.Equal(tt.status, w.Code)
		})
	}

	posted := withStatus(draftEntry("je-1"), domain.StatusPosted)
	periodID := "per-2024-03"
	posted.PeriodID = &periodID
	suite.journals.On("PostJournalEntry", mock.Anything, testActor, "je-1").Return(posted, nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/post", nil)
	suite.Equal(http.StatusOK, w.Code)
	resp := decode[dto.JournalEntryResponse](suite, w)
	suite.Equal("POSTED", resp.Status)
	suite.Equal(&periodID, resp.PeriodID)
}

func (suite *HandlerTestSuite) TestReverseJournalEntry() {
	original := "je-1"
	reversal := withStatus(draftEntry("je-2"), domain.StatusPosted)
	reversal.ReversalOfID = &original
	reversal.Lines[0], reversal.Lines[1] = reversal.Lines[0].Swapped(), reversal.Lines[1].Swapped()
	suite.journals.On("ReverseJournalEntry", mock.Anything, testActor, "je-1").Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", nil)

	suite.Equal(http.StatusCreated, w.Code)
	resp := decode[dto.JournalEntryResponse](suite, w)
	suite.Equal(&original, resp.ReversalOfID)
	suite.True(resp.Lines[0].Credit.Equal(decimal.NewFromInt(250)))
}

func (suite *HandlerTestSuite) TestReverseJournalEntry_AlreadyReversed() {
	suite.journals.On("ReverseJournalEntry", mock.Anything, testActor, "je-1").
		Return(nil, apperrors.NewStateConflictError("journal entry je-1 is already reversed")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", nil)

	suite.Equal(http.StatusConflict, w.Code)
}
