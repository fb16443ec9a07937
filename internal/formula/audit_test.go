package formula

import (
	"testing"

	"golang-ledger-validation-service/internal/models"
)

func sheetWithFormulas(column string, sources ...string) *models.Sheet {
	sheet := models.NewSheet("Income Statement", []string{"Account", column})
	for _, src := range sources {
		sheet.Rows = append(sheet.Rows, models.Row{
			"Account": models.TextCell("Sales"),
			column:    models.ParseCell(src),
		})
	}
	return sheet
}

func TestAudit_HardcodedValue(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"=10000", true},
		{"=10000.50", true},
		{"=.5", true},
		{"=10.5.3", false},
		{"=SUM(B2:B10)", false},
		{"=-500", false},
		{"=", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			findings := Audit(sheetWithFormulas("Amount", tt.source))
			got := false
			for _, f := range findings {
				if f.Issue == "Formula in Amount is hardcoded value: "+tt.source {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("hardcoded(%q) = %v, want %v (findings %v)", tt.source, got, tt.want, findings)
			}
		})
	}
}

func TestAudit_EmptyCellReference(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{`=IF(B2="",0,B2)`, true},
		{"=blank()", true},
		{"=SUM(B2:B10)", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			findings := Audit(sheetWithFormulas("Amount", tt.source))
			got := false
			for _, f := range findings {
				if f.Issue == "Formula in Amount references empty cell: "+tt.source {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("emptyRef(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestAudit_CircularReference(t *testing.T) {
	// Row 1 of the sheet is worksheet row 2, so A2 in column Amount
	// (first byte 'A') is a self-reference.
	sheet := sheetWithFormulas("Amount", "=A2+10")
	findings := Audit(sheet)

	found := false
	for _, f := range findings {
		if f.Issue == "Possible circular reference in Amount: =A2+10" {
			found = true
			if *f.Row != 1 {
				t.Errorf("row = %d, want 1", *f.Row)
			}
		}
	}
	if !found {
		t.Errorf("findings %v missing circular-reference flag", findings)
	}

	// A3 refers to a different worksheet row.
	if findings := Audit(sheetWithFormulas("Amount", "=A3+10")); len(findings) != 0 {
		t.Errorf("non-self reference flagged: %v", findings)
	}
}

func TestAudit_MultipleHeuristicsPerCell(t *testing.T) {
	sheet := sheetWithFormulas("Amount", `=IF(A2="",0,1)`)
	findings := Audit(sheet)

	if len(findings) != 2 {
		t.Fatalf("got %d findings %v, want empty-ref and circular", len(findings), findings)
	}
}

func TestAudit_IgnoresNonFormulaCells(t *testing.T) {
	sheet := models.NewSheet("Balance Sheet", []string{"Amount"})
	sheet.Rows = []models.Row{
		{"Amount": models.TextCell("10000")},
		{"Amount": models.NumberCellFromFloat(42)},
		{"Amount": models.MissingCell()},
	}

	if findings := Audit(sheet); len(findings) != 0 {
		t.Errorf("non-formula cells flagged: %v", findings)
	}
}
