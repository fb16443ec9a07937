package parsers

import (
	"strings"
	"testing"

	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/pkg/errors"
)

func newTestParser(t *testing.T) *WorkbookParser {
	t.Helper()
	p, err := NewWorkbookParser(nil)
	if err != nil {
		t.Fatalf("NewWorkbookParser() error = %v", err)
	}
	return p
}

func TestUploadConfig_Allowed(t *testing.T) {
	config := DefaultUploadConfig()

	tests := []struct {
		filename string
		want     bool
	}{
		{"ledger.csv", true},
		{"Ledger.CSV", true},
		{"books.xlsx", true},
		{"books.xls", false},
		{"notes.txt", false},
		{"archive.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := config.Allowed(tt.filename); got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParse_RejectsInvalidType(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse([]byte("hello"), "notes.txt")
	if !errors.HasCode(err, errors.CodeInvalidFileType) {
		t.Errorf("expected invalid_file_type, got %v", err)
	}
}

func TestParse_RejectsOversizedFile(t *testing.T) {
	config := DefaultUploadConfig()
	config.MaxFileSize = 10
	p, err := NewWorkbookParser(config)
	if err != nil {
		t.Fatalf("NewWorkbookParser() error = %v", err)
	}

	_, err = p.Parse([]byte(strings.Repeat("a", 11)), "big.csv")
	if !errors.HasCode(err, errors.CodeFileTooLarge) {
		t.Errorf("expected file_too_large, got %v", err)
	}
}

func TestParse_CSV(t *testing.T) {
	p := newTestParser(t)

	csvData := "Date,Account,Debit,Credit\n" +
		"2024-01-01,Cash,100,100\n" +
		"not-a-date,,50,40\n"

	wb, err := p.Parse([]byte(csvData), "journal.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sheet, ok := wb.Sheet(CSVSheetName)
	if !ok {
		t.Fatalf("expected sheet %q, have %v", CSVSheetName, wb.Names)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}

	if got := sheet.Cell(0, "Account"); got.Kind != models.CellText || got.Text != "Cash" {
		t.Errorf("row 1 Account = %+v, want text Cash", got)
	}
	if got := sheet.Cell(0, "Debit"); got.Kind != models.CellNumber {
		t.Errorf("row 1 Debit kind = %v, want number", got.Kind)
	}
	if got := sheet.Cell(1, "Account"); !got.IsMissing() {
		t.Errorf("row 2 Account = %+v, want missing", got)
	}
}

func TestParse_CSVSkipsBlankAndShortRows(t *testing.T) {
	p := newTestParser(t)

	csvData := "Account,Amount\n" +
		"Cash,100\n" +
		"\n" +
		"Inventory\n"

	wb, err := p.Parse([]byte(csvData), "data.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sheet := wb.First()
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows (blank skipped), got %d", len(sheet.Rows))
	}
	if got := sheet.Cell(1, "Amount"); !got.IsMissing() {
		t.Errorf("short row Amount = %+v, want missing", got)
	}
}

func TestParse_CSVFormulaCells(t *testing.T) {
	p := newTestParser(t)

	csvData := "Account,Amount\n" +
		"Total,=10000\n"

	wb, err := p.Parse([]byte(csvData), "stmt.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := wb.First().Cell(0, "Amount")
	if got.Kind != models.CellFormula || got.Text != "=10000" {
		t.Errorf("Amount = %+v, want formula =10000", got)
	}
}

func TestParse_EmptyCSV(t *testing.T) {
	p := newTestParser(t)

	if _, err := p.Parse([]byte(""), "empty.csv"); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestParse_BlankHeaderGetsPlaceholder(t *testing.T) {
	p := newTestParser(t)

	wb, err := p.Parse([]byte("Account,,Amount\nCash,x,1\n"), "data.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	columns := wb.First().Columns
	want := []string{"Account", "Unnamed: 1", "Amount"}
	for i, col := range want {
		if columns[i] != col {
			t.Errorf("columns[%d] = %q, want %q", i, columns[i], col)
		}
	}
}

func TestAnalyze_RejectsNonExcel(t *testing.T) {
	p := newTestParser(t)

	if _, err := p.Analyze([]byte("a,b\n1,2\n"), "data.csv"); !errors.HasCode(err, errors.CodeInvalidFileType) {
		t.Errorf("expected invalid_file_type, got %v", err)
	}
}
