package handlers

import (
	"fmt"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheetWriter appends rows to a single worksheet, remembering the first error.
type sheetWriter struct {
	f          *excelize.File
	sheet      string
	row        int
	boldStyle  int
	moneyStyle int
	totalStyle int
	err        error
}

func newSheetWriter(sheet string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	total, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}
	return &sheetWriter{f: f, sheet: sheet, boldStyle: bold, moneyStyle: money, totalStyle: total}, nil
}

func (w *sheetWriter) write(cells []any, bold bool) {
	if w.err != nil {
		return
	}
	w.row++
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			w.err = err
			return
		}
		style := 0
		if a, ok := v.(domain.Amount); ok {
			v = a.Decimal().InexactFloat64()
			style = w.moneyStyle
			if bold {
				style = w.totalStyle
			}
		} else if bold {
			style = w.boldStyle
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
		if style != 0 {
			if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
				w.err = err
				return
			}
		}
	}
}

func (w *sheetWriter) line(cells ...any)  { w.write(cells, false) }
func (w *sheetWriter) total(cells ...any) { w.write(cells, true) }
func (w *sheetWriter) blank()             { w.row++ }

// section writes a titled list of statement lines followed by its total.
func (w *sheetWriter) section(title string, lines []domain.StatementLine, totalLabel string, total domain.Amount) {
	w.total(title)
	for _, l := range lines {
		w.line(l.Code, l.Name, l.Amount)
	}
	w.total("", totalLabel, total)
	w.blank()
}

func (w *sheetWriter) finish() (*excelize.File, error) {
	if w.err != nil {
		_ = w.f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", w.sheet, w.err)
	}
	if err := w.f.SetColWidth(w.sheet, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := w.f.SetColWidth(w.sheet, "B", "B", 40); err != nil {
		return nil, err
	}
	return w.f, nil
}

func trialBalanceWorkbook(tb *domain.TrialBalance) (*excelize.File, error) {
	w, err := newSheetWriter("Trial Balance")
	if err != nil {
		return nil, err
	}
	asOf := "all dates"
	if tb.AsOf != nil {
		asOf = tb.AsOf.Format(domain.DateLayout)
	}
	w.total("Trial Balance", "As of "+asOf)
	w.blank()
	w.total("Code", "Account", "Classification", "Debit", "Credit")
	for _, r := range tb.Rows {
		w.line(r.Code, r.AccountName, string(r.Classification), r.DebitBalance, r.CreditBalance)
	}
	w.total("", "Total", "", tb.TotalDebitBalance, tb.TotalCreditBalance)
	return w.finish()
}

func incomeStatementWorkbook(is *domain.IncomeStatement) (*excelize.File, error) {
	w, err := newSheetWriter("Income Statement")
	if err != nil {
		return nil, err
	}
	w.total("Income Statement", is.StartDate.Format(domain.DateLayout)+" to "+is.EndDate.Format(domain.DateLayout))
	w.blank()
	w.section("Revenue", is.Revenue, "Total revenue", is.TotalRevenue)
	w.section("Expenses", is.Expenses, "Total expenses", is.TotalExpenses)
	w.total("", "Net income", is.NetIncome)
	return w.finish()
}

func balanceSheetWorkbook(bs *domain.BalanceSheet) (*excelize.File, error) {
	w, err := newSheetWriter("Balance Sheet")
	if err != nil {
		return nil, err
	}
	w.total("Balance Sheet", "As of "+bs.AsOf.Format(domain.DateLayout))
	w.blank()
	w.section("Assets", bs.Assets, "Total assets", bs.TotalAssets)
	w.section("Liabilities", bs.Liabilities, "Total liabilities", bs.TotalLiabilities)
	w.section("Equity", bs.Equity, "Total equity", bs.TotalEquity)
	w.total("", "Total liabilities and equity", bs.TotalLiabilities+bs.TotalEquity)
	return w.finish()
}

func cashFlowWorkbook(cf *domain.CashFlowStatement) (*excelize.File, error) {
	w, err := newSheetWriter("Cash Flow")
	if err != nil {
		return nil, err
	}
	w.total("Cash Flow Statement", cf.StartDate.Format(domain.DateLayout)+" to "+cf.EndDate.Format(domain.DateLayout))
	w.blank()
	w.total("Operating activities")
	w.line("", "Net income", cf.NetIncome)
	for _, l := range cf.NonCashAdjustments {
		w.line(l.Code, l.Name, l.Amount)
	}
	for _, l := range cf.WorkingCapital {
		w.line(l.Code, l.Name, l.Amount)
	}
	w.total("", "Net cash from operating activities", cf.TotalOperating)
	w.blank()
	w.section("Investing activities", cf.Investing, "Net cash from investing activities", cf.TotalInvesting)
	w.section("Financing activities", cf.Financing, "Net cash from financing activities", cf.TotalFinancing)
	w.total("", "Net change in cash", cf.NetChange)
	w.line("", "Cash at beginning of period", cf.CashBeginning)
	w.line("", "Cash at end of period", cf.CashEnding)
	return w.finish()
}
