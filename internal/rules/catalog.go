package rules

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/internal/models"

	"github.com/shopspring/decimal"
)

// suspiciousGap is the debit/credit discrepancy above which a trial-balance
// row is suggested for review.
var suspiciousGap = decimal.NewFromInt(1000)

// Validate runs the category-specific checks for a sheet and returns the
// findings in emission order.
func Validate(sheet *models.Sheet, category models.Category) []models.Finding {
	switch category {
	case models.CategoryChart:
		return validateChart(sheet)
	case models.CategoryJournal:
		return validateJournal(sheet)
	case models.CategoryTrial:
		return validateTrial(sheet)
	case models.CategoryStatement:
		return validateStatement(sheet)
	default:
		return nil
	}
}

// validateChart checks a chart-of-accounts sheet for missing account
// numbers, names and types, then for fully duplicated rows.
func validateChart(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding

	required := []struct {
		column string
		issue  string
	}{
		{"Account Number", "Missing Account Number"},
		{"Account Name", "Missing Account Name"},
		{"Type", "Missing Account Type"},
	}

	for _, req := range required {
		if !sheet.HasColumn(req.column) {
			continue
		}
		for i, row := range sheet.Rows {
			if row.Cell(req.column).IsMissing() {
				findings = append(findings, models.RowFinding(i+1, req.issue))
			}
		}
	}

	for _, pos := range duplicateRowPositions(sheet) {
		findings = append(findings, models.RowFinding(pos, "Duplicate row"))
	}

	return findings
}

// validateJournal checks journal entries row by row: date validity,
// debit/credit balance within tolerance, account presence and the basic
// GAAP posting rules. Header and total rows are skipped.
func validateJournal(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding

	for i, row := range sheet.Rows {
		if IsHeaderRow(sheet, row) {
			continue
		}
		position := i + 1

		if sheet.HasColumn("Date") && !row.Cell("Date").IsValidDate() {
			findings = append(findings, models.RowFinding(position, "Invalid or missing Date"))
		}

		debit := numberOrZero(row.Cell("Debit"))
		credit := numberOrZero(row.Cell("Credit"))
		if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
			findings = append(findings, models.RowFinding(position,
				fmt.Sprintf("Debit (%s) ≠ Credit (%s)", debit.StringFixed(2), credit.StringFixed(2))))
		}

		if sheet.HasColumn("Account") && row.Cell("Account").IsEmpty() {
			findings = append(findings, models.RowFinding(position, "Missing Account"))
		}

		accountName := strings.ToLower(strings.TrimSpace(row.Cell("Account").String()))
		accountType := strings.ToLower(strings.TrimSpace(row.Cell("Type").String()))

		if accountName == "depreciation expense" && debit.IsNegative() {
			findings = append(findings, models.RowFinding(position,
				"Depreciation expense should not be negative (GAAP)"))
		}
		if accountType == "revenue" && debit.IsPositive() {
			findings = append(findings, models.RowFinding(position,
				"Revenue account has debit value (GAAP)"))
		}
		if accountType == "equity" && debit.IsPositive() {
			findings = append(findings, models.RowFinding(position,
				"Equity account should not have debit balance (GAAP)"))
		}
		if accountName == "prepaid expenses" && IsIncomeSheet(sheet.Name) {
			findings = append(findings, models.RowFinding(position,
				"Prepaid expenses should not appear in P&L (GAAP)"))
		}
	}

	return findings
}

// validateTrial sums the Debit and Credit columns (cells that fail numeric
// coercion are excluded) and emits one sheet-level finding when the totals
// disagree beyond tolerance, naming up to three suspicious rows. Rows with
// a missing Account are flagged individually.
func validateTrial(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding

	if sheet.HasColumn("Debit") && sheet.HasColumn("Credit") {
		totalDebit := columnSum(sheet, "Debit")
		totalCredit := columnSum(sheet, "Credit")
		diff := totalDebit.Sub(totalCredit)

		if diff.Abs().GreaterThan(Tolerance) {
			var suspicious []string
			for i, row := range sheet.Rows {
				debitCell := row.Cell("Debit")
				creditCell := row.Cell("Credit")
				gap := numberOrZero(debitCell).Sub(numberOrZero(creditCell)).Abs()
				if debitCell.IsMissing() || creditCell.IsMissing() || gap.GreaterThan(suspiciousGap) {
					suspicious = append(suspicious, fmt.Sprintf("%d", i+1))
				}
				if len(suspicious) == 3 {
					break
				}
			}

			suggestion := "Review all entries."
			if len(suspicious) > 0 {
				suggestion = fmt.Sprintf("Consider checking rows: %s", strings.Join(suspicious, ", "))
			}

			findings = append(findings, models.SheetFinding(fmt.Sprintf(
				"Trial balance out of balance: Debits=%s, Credits=%s. Difference=%s. %s",
				totalDebit, totalCredit, diff, suggestion)))
		}
	}

	if sheet.HasColumn("Account") {
		for i, row := range sheet.Rows {
			if row.Cell("Account").IsMissing() {
				findings = append(findings, models.RowFinding(i+1, "Missing Account"))
			}
		}
	}

	return findings
}

// validateStatement checks income-statement and balance-sheet rows for
// missing values and flags formula cells as audit candidates. Header and
// total rows are skipped.
func validateStatement(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding

	for i, row := range sheet.Rows {
		if IsHeaderRow(sheet, row) {
			continue
		}
		position := i + 1

		for _, col := range sheet.Columns {
			cell := row.Cell(col)
			if cell.IsMissing() {
				findings = append(findings, models.RowFinding(position,
					fmt.Sprintf("Missing value in %s", col)))
			}
			if cell.Kind == models.CellFormula {
				findings = append(findings, models.RowFinding(position,
					fmt.Sprintf("Excel formula present in %s: %s (Check for circular refs or hardcoded totals)",
						col, cell.Text)))
			}
		}
	}

	return findings
}

// duplicateRowPositions returns the 1-based positions of rows that exactly
// duplicate an earlier row across all columns.
func duplicateRowPositions(sheet *models.Sheet) []int {
	var positions []int
	for i, row := range sheet.Rows {
		for j := 0; j < i; j++ {
			if row.Equal(sheet.Rows[j], sheet.Columns) {
				positions = append(positions, i+1)
				break
			}
		}
	}
	return positions
}

// numberOrZero coerces a cell to a number, treating missing and
// non-numeric values as zero.
func numberOrZero(cell models.Cell) decimal.Decimal {
	if d, ok := cell.AsNumber(); ok {
		return d
	}
	return decimal.Zero
}

// columnSum totals the numerically coercible cells of a column.
func columnSum(sheet *models.Sheet, column string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range sheet.Rows {
		if d, ok := row.Cell(column).AsNumber(); ok {
			total = total.Add(d)
		}
	}
	return total
}
