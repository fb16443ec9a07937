package exporter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"golang-ledger-validation-service/internal/models"

	"github.com/xuri/excelize/v2"
)

func sampleWorkbook() *models.Workbook {
	journal := models.NewSheet("Journal Entries", []string{"Account", "Debit", "Credit"})
	journal.Rows = []models.Row{
		{
			"Account": models.TextCell("Cash"),
			"Debit":   models.NumberCellFromFloat(100.50),
			"Credit":  models.MissingCell(),
		},
		{
			"Account": models.TextCell("Revenue"),
			"Debit":   models.MissingCell(),
			"Credit":  models.NumberCellFromFloat(100.50),
		},
	}

	balance := models.NewSheet("Balance Sheet", []string{"Account", "Amount"})
	balance.Rows = []models.Row{
		{"Account": models.TextCell("Total Assets"), "Amount": models.FormulaCell("=SUM(B2:B9)")},
	}

	wb := models.NewWorkbook()
	wb.Add(journal)
	wb.Add(balance)
	return wb
}

func TestCSV(t *testing.T) {
	wb := sampleWorkbook()
	sheet, _ := wb.Sheet("Journal Entries")

	data, err := CSV(sheet)
	if err != nil {
		t.Fatalf("CSV() error: %v", err)
	}

	want := "Account,Debit,Credit\nCash,100.5,\nRevenue,,100.5\n"
	if string(data) != want {
		t.Errorf("CSV = %q, want %q", data, want)
	}
}

func TestCSVFilename(t *testing.T) {
	if got := CSVFilename("Journal Entries"); got != "Journal_Entries.csv" {
		t.Errorf("CSVFilename = %q", got)
	}
	if got := CSVFilename("Journal"); got != "Journal.csv" {
		t.Errorf("CSVFilename = %q", got)
	}
}

func TestZIP_RoundTrip(t *testing.T) {
	data, err := ZIP(sampleWorkbook())
	if err != nil {
		t.Fatalf("ZIP() error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}

	var names []string
	contents := map[string]string{}
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading entry %s: %v", f.Name, err)
		}
		contents[f.Name] = string(raw)
	}

	wantNames := []string{"Journal_Entries.csv", "Balance_Sheet.csv"}
	if len(names) != 2 || names[0] != wantNames[0] || names[1] != wantNames[1] {
		t.Fatalf("entries = %v, want %v", names, wantNames)
	}
	if !strings.HasPrefix(contents["Journal_Entries.csv"], "Account,Debit,Credit\n") {
		t.Errorf("journal entry content = %q", contents["Journal_Entries.csv"])
	}
	if !strings.Contains(contents["Balance_Sheet.csv"], "Total Assets") {
		t.Errorf("balance entry content = %q", contents["Balance_Sheet.csv"])
	}
}

func TestXLSX_RoundTrip(t *testing.T) {
	data, err := XLSX(sampleWorkbook())
	if err != nil {
		t.Fatalf("XLSX() error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Journal Entries" || sheets[1] != "Balance Sheet" {
		t.Fatalf("sheets = %v", sheets)
	}

	header, err := f.GetCellValue("Journal Entries", "A1")
	if err != nil || header != "Account" {
		t.Errorf("A1 = %q, %v", header, err)
	}
	debit, err := f.GetCellValue("Journal Entries", "B2")
	if err != nil || debit != "100.5" {
		t.Errorf("B2 = %q, %v", debit, err)
	}
	formula, err := f.GetCellFormula("Balance Sheet", "B2")
	if err != nil || formula != "SUM(B2:B9)" {
		t.Errorf("formula = %q, %v", formula, err)
	}
}

func TestHTMLReport(t *testing.T) {
	wb := sampleWorkbook()
	sheet, _ := wb.Sheet("Journal Entries")

	html, err := HTMLReport(Report{
		Sheet: sheet,
		Findings: []models.Finding{
			models.RowFinding(2, "Missing value in Debit"),
			models.SheetFinding("Trial balance out of balance: Debits=100, Credits=90"),
		},
		Fixes:   []string{"Filled 2 missing values with 0."},
		Summary: []string{"2 sheets validated"},
	})
	if err != nil {
		t.Fatalf("HTMLReport() error: %v", err)
	}

	page := string(html)
	for _, want := range []string{
		"<title>Financial Data Report</title>",
		"<h1>Financial Data Summary Report</h1>",
		"<li>Filled 2 missing values with 0.</li>",
		"<li>Row 2: Missing value in Debit</li>",
		"<li>Row ?: Trial balance out of balance: Debits=100, Credits=90</li>",
		"<li>2 sheets validated</li>",
		"<th>Account</th>",
		"<td>Cash</td>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestHTMLReport_EscapesCellContent(t *testing.T) {
	sheet := models.NewSheet("Notes", []string{"Text"})
	sheet.Rows = []models.Row{{"Text": models.TextCell("<script>alert(1)</script>")}}

	html, err := HTMLReport(Report{Sheet: sheet})
	if err != nil {
		t.Fatalf("HTMLReport() error: %v", err)
	}
	if strings.Contains(string(html), "<script>alert(1)</script>") {
		t.Error("cell content not escaped")
	}
}
