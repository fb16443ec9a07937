package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind CellKind
	}{
		{"empty string", "", CellMissing},
		{"whitespace only", "   ", CellMissing},
		{"integer", "100", CellNumber},
		{"decimal", "12.34", CellNumber},
		{"negative", "-5.5", CellNumber},
		{"currency", "$1,234.56", CellNumber},
		{"formula", "=SUM(A1:A5)", CellFormula},
		{"hardcoded formula", "=10000", CellFormula},
		{"boolean true", "TRUE", CellBool},
		{"boolean false", "false", CellBool},
		{"plain text", "Cash", CellText},
		{"date text", "2024-01-01", CellText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCell(tt.raw); got.Kind != tt.kind {
				t.Errorf("ParseCell(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.kind)
			}
		})
	}
}

func TestParseCell_NumberValue(t *testing.T) {
	cell := ParseCell("$1,234.56")
	want := decimal.NewFromFloat(1234.56)
	if !cell.Number.Equal(want) {
		t.Errorf("ParseCell number = %s, want %s", cell.Number, want)
	}
}

func TestCell_AsNumber(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   string
		wantOK bool
	}{
		{"number cell", NumberCellFromFloat(42.5), "42.5", true},
		{"numeric text", TextCell("100"), "100", true},
		{"currency text", TextCell("$2,000"), "2000", true},
		{"plain text", TextCell("Cash"), "", false},
		{"missing", MissingCell(), "", false},
		{"formula", FormulaCell("=A1+A2"), "", false},
		{"bool", BoolCell(true), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.AsNumber()
			if ok != tt.wantOK {
				t.Fatalf("AsNumber() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("AsNumber() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCell_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Cell
		want bool
	}{
		{"equal numbers", NumberCellFromFloat(100), NumberCellFromFloat(100), true},
		{"equal numbers different scale", NumberCellFromFloat(100), NumberCell(decimal.RequireFromString("100.00")), true},
		{"different numbers", NumberCellFromFloat(100), NumberCellFromFloat(100.01), false},
		{"equal text", TextCell("Cash"), TextCell("Cash"), true},
		{"different kinds", TextCell("100"), NumberCellFromFloat(100), false},
		{"both missing", MissingCell(), MissingCell(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCell_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"missing", MissingCell(), "null"},
		{"number", NumberCellFromFloat(12.5), "12.5"},
		{"text", TextCell("Cash"), `"Cash"`},
		{"formula", FormulaCell("=10000"), `"=10000"`},
		{"bool", BoolCell(true), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.cell)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCell_IsValidDate(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{"ISO date", TextCell("2024-01-01"), true},
		{"US date", TextCell("01/15/2024"), true},
		{"long form", TextCell("Jan 2, 2024"), true},
		{"garbage", TextCell("not-a-date"), false},
		{"missing", MissingCell(), false},
		{"number", NumberCellFromFloat(44927), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.IsValidDate(); got != tt.want {
				t.Errorf("IsValidDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRow_Equal(t *testing.T) {
	columns := []string{"Account", "Debit"}
	a := Row{"Account": TextCell("Cash"), "Debit": NumberCellFromFloat(100)}
	b := Row{"Account": TextCell("Cash"), "Debit": NumberCellFromFloat(100)}
	c := Row{"Account": TextCell("Cash"), "Debit": NumberCellFromFloat(200)}

	if !a.Equal(b, columns) {
		t.Error("expected identical rows to be equal")
	}
	if a.Equal(c, columns) {
		t.Error("expected rows with different debit to differ")
	}
}

func TestWorkbook_Resolve(t *testing.T) {
	wb := NewWorkbook()
	first := NewSheet("Journal", []string{"Account"})
	second := NewSheet("Trial Balance", []string{"Account"})
	wb.Add(first)
	wb.Add(second)

	tests := []struct {
		name     string
		lookup   string
		wantName string
	}{
		{"named sheet", "Trial Balance", "Trial Balance"},
		{"empty name falls back to first", "", "Journal"},
		{"unknown name falls back to first", "Nope", "Journal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wb.Resolve(tt.lookup)
			if got == nil || got.Name != tt.wantName {
				t.Errorf("Resolve(%q) = %v, want sheet %q", tt.lookup, got, tt.wantName)
			}
		})
	}

	empty := NewWorkbook()
	if empty.Resolve("") != nil {
		t.Error("expected nil sheet for empty workbook")
	}
}

func TestFinding_Scope(t *testing.T) {
	rowFinding := RowFinding(3, "Missing Account")
	if rowFinding.IsSheetLevel() {
		t.Error("row finding should not be sheet-level")
	}
	if *rowFinding.Row != 3 {
		t.Errorf("Row = %d, want 3", *rowFinding.Row)
	}

	sheetFinding := SheetFinding("Trial balance out of balance")
	if !sheetFinding.IsSheetLevel() {
		t.Error("sheet finding should be sheet-level")
	}

	data, err := json.Marshal(sheetFinding)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"row":null,"issue":"Trial balance out of balance"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}
