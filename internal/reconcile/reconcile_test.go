package reconcile

import (
	"strings"
	"testing"

	"golang-ledger-validation-service/internal/models"
)

func statementSheet(name string, rows [][2]string) *models.Sheet {
	sheet := models.NewSheet(name, []string{"Account", "Amount"})
	for _, pair := range rows {
		sheet.Rows = append(sheet.Rows, models.Row{
			"Account": models.TextCell(pair[0]),
			"Amount":  models.ParseCell(pair[1]),
		})
	}
	return sheet
}

func workbookOf(sheets ...*models.Sheet) *models.Workbook {
	wb := models.NewWorkbook()
	for _, s := range sheets {
		wb.Add(s)
	}
	return wb
}

func TestReconcile_Matched(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{
			{"Revenue", "10000"},
			{"Net Income", "5000"},
		}),
		statementSheet("Balance Sheet", [][2]string{
			{"Retained Earnings", "5000"},
			{"Total Assets", "20000"},
			{"Total Liabilities and Equity", "20000"},
		}),
	)

	if findings := Reconcile(wb); len(findings) != 0 {
		t.Errorf("matched statements produced findings: %v", findings)
	}
}

func TestReconcile_NetIncomeMismatch(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{{"Net Income", "5000"}}),
		statementSheet("Balance Sheet", [][2]string{{"Retained Earnings", "4000"}}),
	)

	findings := Reconcile(wb)
	if len(findings) != 1 {
		t.Fatalf("got %d findings %v, want 1", len(findings), findings)
	}
	f := findings[0]
	if !f.IsSheetLevel() {
		t.Error("cross-sheet finding should be sheet-level")
	}
	want := "Net income from Income Statement (5000) does not match change in Retained Earnings on Balance Sheet (4000)."
	if f.Issue != want {
		t.Errorf("issue = %q, want %q", f.Issue, want)
	}
}

func TestReconcile_BalanceEquationMismatch(t *testing.T) {
	wb := workbookOf(
		statementSheet("Balance Sheet", [][2]string{
			{"Total Assets", "20000"},
			{"Total Liabilities and Equity", "19500"},
		}),
	)

	findings := Reconcile(wb)
	if len(findings) != 1 {
		t.Fatalf("got %d findings %v, want 1", len(findings), findings)
	}
	want := "Total Assets (20000) does not equal Total Liabilities and Equity (19500) on Balance Sheet."
	if findings[0].Issue != want {
		t.Errorf("issue = %q, want %q", findings[0].Issue, want)
	}
}

// Exactly one comparison fires when only its pair of figures disagrees.
func TestReconcile_SingleMismatch(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{{"Net Profit", "5000"}}),
		statementSheet("Balance Sheet", [][2]string{
			{"Retained Earnings", "4000"},
			{"Total Assets", "20000"},
			{"Total Liabilities and Equity", "20000"},
		}),
	)

	findings := Reconcile(wb)
	if len(findings) != 1 {
		t.Fatalf("got %d findings %v, want exactly 1", len(findings), findings)
	}
	if !strings.HasPrefix(findings[0].Issue, "Net income from Income Statement") {
		t.Errorf("issue = %q, want net-income mismatch", findings[0].Issue)
	}
}

func TestReconcile_MissingFiguresSkipComparison(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{{"Net Income", "5000"}}),
		statementSheet("Cash Flow", [][2]string{{"Net Cash", "100"}}),
	)

	if findings := Reconcile(wb); len(findings) != 0 {
		t.Errorf("incomplete figures produced findings: %v", findings)
	}
}

func TestReconcile_LastRowWins(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{
			{"Net Income", "1000"},
			{"Net Income", "5000"},
		}),
		statementSheet("Balance Sheet", [][2]string{{"Retained Earnings", "5000"}}),
	)

	if findings := Reconcile(wb); len(findings) != 0 {
		t.Errorf("last capture should win, got findings: %v", findings)
	}
}

func TestReconcile_UnparseableAmountKeepsPrevious(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{
			{"Net Income", "5000"},
			{"Net Income", "tbd"},
		}),
		statementSheet("Balance Sheet", [][2]string{{"Retained Earnings", "5000"}}),
	)

	if findings := Reconcile(wb); len(findings) != 0 {
		t.Errorf("unparseable amount should not clobber capture, got: %v", findings)
	}
}

func TestReconcile_Tolerance(t *testing.T) {
	wb := workbookOf(
		statementSheet("Income Statement", [][2]string{{"Net Income", "5000.00"}}),
		statementSheet("Balance Sheet", [][2]string{{"Retained Earnings", "5000.01"}}),
	)

	if findings := Reconcile(wb); len(findings) != 0 {
		t.Errorf("difference within tolerance produced findings: %v", findings)
	}
}
