package rules

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/internal/models"
)

// findingCap bounds the two cost-sensitive scans (missing values and Excel
// error literals).
const findingCap = 25

// excelErrorCodes are the literal Excel error strings flagged by the error
// scan.
var excelErrorCodes = map[string]bool{
	"#REF!":   true,
	"#VALUE!": true,
	"#DIV/0!": true,
	"#NAME?":  true,
	"#N/A":    true,
	"#NUM!":   true,
	"#NULL!":  true,
}

// StandardChart is the default chart of accounts used by the account-code
// membership check when no custom set is supplied.
var StandardChart = map[string]bool{
	"1000": true, "2000": true, "3000": true,
	"4000": true, "5000": true, "6000": true,
	"7000": true, "8000": true, "9000": true,
}

// RequiredIncomeCategories are the categories an income statement must
// carry.
var RequiredIncomeCategories = []string{"Revenue", "Expenses"}

// RequiredBalanceCategories are the categories a balance sheet must carry.
var RequiredBalanceCategories = []string{"Assets", "Liabilities", "Equity"}

// CheckMissingValues flags every null cell, column by column, capped at 25
// findings for cost control.
func CheckMissingValues(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding
	for _, col := range sheet.Columns {
		for i, row := range sheet.Rows {
			if row.Cell(col).IsMissing() {
				findings = append(findings, models.RowFinding(i+1,
					fmt.Sprintf("Missing value in %s", col)))
				if len(findings) >= findingCap {
					return findings
				}
			}
		}
	}
	return findings
}

// CheckDuplicates flags every row that exactly duplicates an earlier row.
func CheckDuplicates(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding
	for _, pos := range duplicateRowPositions(sheet) {
		findings = append(findings, models.RowFinding(pos, "Duplicate row"))
	}
	return findings
}

// CheckInvalidDates flags rows whose value in the date column is present
// but not a parseable calendar date.
func CheckInvalidDates(sheet *models.Sheet, dateColumn string) []models.Finding {
	if dateColumn == "" {
		dateColumn = "Date"
	}
	if !sheet.HasColumn(dateColumn) {
		return nil
	}

	var findings []models.Finding
	for i, row := range sheet.Rows {
		cell := row.Cell(dateColumn)
		if cell.IsMissing() {
			continue
		}
		if !cell.IsValidDate() {
			findings = append(findings, models.RowFinding(i+1, "Invalid date"))
		}
	}
	return findings
}

// CheckAccountCodes flags rows whose account code is not a member of the
// supplied set; a nil set means the standard chart.
func CheckAccountCodes(sheet *models.Sheet, codeColumn string, chart map[string]bool) []models.Finding {
	if codeColumn == "" {
		codeColumn = "Account"
	}
	if chart == nil {
		chart = StandardChart
	}
	if !sheet.HasColumn(codeColumn) {
		return nil
	}

	var findings []models.Finding
	for i, row := range sheet.Rows {
		value := row.Cell(codeColumn).String()
		if !chart[value] {
			findings = append(findings, models.RowFinding(i+1,
				fmt.Sprintf("Unknown account code: %s", value)))
		}
	}
	return findings
}

// CheckExcelErrors flags text cells holding a literal Excel error code,
// capped at 25 findings.
func CheckExcelErrors(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding
	for _, col := range sheet.Columns {
		for i, row := range sheet.Rows {
			cell := row.Cell(col)
			if cell.Kind != models.CellText {
				continue
			}
			if excelErrorCodes[strings.ToUpper(strings.TrimSpace(cell.Text))] {
				findings = append(findings, models.RowFinding(i+1,
					fmt.Sprintf("Excel error code in %s: %s", col, cell.Text)))
				if len(findings) >= findingCap {
					return findings
				}
			}
		}
	}
	return findings
}

// CheckRequiredCategories emits a sheet-level finding for every required
// category absent from the category column.
func CheckRequiredCategories(sheet *models.Sheet, required []string, column string) []models.Finding {
	if column == "" {
		column = "Category"
	}
	if !sheet.HasColumn(column) {
		return nil
	}

	present := make(map[string]bool)
	for _, row := range sheet.Rows {
		cell := row.Cell(column)
		if cell.IsMissing() {
			continue
		}
		present[strings.TrimSpace(cell.String())] = true
	}

	var findings []models.Finding
	for _, req := range required {
		if !present[req] {
			findings = append(findings, models.SheetFinding(
				fmt.Sprintf("Missing required category: %s", req)))
		}
	}
	return findings
}

// CheckTrialBalanceTotals emits one sheet-level finding when the Debit and
// Credit column totals disagree beyond tolerance.
func CheckTrialBalanceTotals(sheet *models.Sheet) []models.Finding {
	if !sheet.HasColumn("Debit") || !sheet.HasColumn("Credit") {
		return nil
	}

	totalDebit := columnSum(sheet, "Debit")
	totalCredit := columnSum(sheet, "Credit")
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(Tolerance) {
		return []models.Finding{models.SheetFinding(fmt.Sprintf(
			"Trial balance out of balance: Debits=%s, Credits=%s", totalDebit, totalCredit))}
	}
	return nil
}

// QuickScanOptions configures the category-agnostic scan.
type QuickScanOptions struct {
	// DateColumn is the column checked for invalid dates; empty means
	// "Date".
	DateColumn string
	// CodeColumn is the column checked for account-code membership; empty
	// disables the check.
	CodeColumn string
	// Chart is the account-code set; nil means the standard chart.
	Chart map[string]bool
	// RequiredCategories lists categories that must be present; empty
	// disables the check.
	RequiredCategories []string
	// CategoryColumn is the column for the required-category check; empty
	// means "Category".
	CategoryColumn string
}

// QuickScan runs the universal checks on any sheet regardless of category.
// It is the less context-aware code path retained alongside the catalog.
func QuickScan(sheet *models.Sheet, opts QuickScanOptions) []models.Finding {
	var findings []models.Finding
	findings = append(findings, CheckMissingValues(sheet)...)
	findings = append(findings, CheckDuplicates(sheet)...)
	findings = append(findings, CheckInvalidDates(sheet, opts.DateColumn)...)
	if opts.CodeColumn != "" {
		findings = append(findings, CheckAccountCodes(sheet, opts.CodeColumn, opts.Chart)...)
	}
	findings = append(findings, CheckExcelErrors(sheet)...)
	if len(opts.RequiredCategories) > 0 {
		findings = append(findings, CheckRequiredCategories(sheet, opts.RequiredCategories, opts.CategoryColumn)...)
	}
	findings = append(findings, CheckTrialBalanceTotals(sheet)...)
	return findings
}
