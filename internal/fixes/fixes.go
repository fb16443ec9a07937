// Package fixes implements the bulk repair operations applied to a sheet:
// duplicate removal, missing-value fill and auto-balancing of small
// rounding errors. Fixes always run in that fixed order regardless of how
// the caller lists them.
package fixes

import (
	"fmt"
	"strings"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/models"

	"github.com/shopspring/decimal"
)

// Fix names accepted by Apply and Preview.
const (
	RemoveDuplicates = "remove-duplicates"
	FillMissing      = "fill-missing"
	AutoBalance      = "auto-balance"
)

// balanceTolerance is the largest debit/credit gap auto-balance will close.
var balanceTolerance = decimal.RequireFromString("0.01")

// Parse splits a comma-separated fix list, trims each name and validates
// it. Empty segments are dropped.
func Parse(list string) ([]string, error) {
	var names []string
	for _, raw := range strings.Split(list, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, validate(names)
}

func validate(names []string) error {
	for _, name := range names {
		switch name {
		case RemoveDuplicates, FillMissing, AutoBalance:
		default:
			return apperrors.New(apperrors.CategoryValidation, apperrors.CodeUnknownFix,
				fmt.Sprintf("unknown fix '%s'", name)).
				WithSuggestion("Valid fixes are: remove-duplicates, fill-missing, auto-balance")
		}
	}
	return nil
}

// Apply runs the requested fixes against the sheet in place and returns
// one summary line per fix that ran.
func Apply(sheet *models.Sheet, names []string) ([]string, error) {
	if err := validate(names); err != nil {
		return nil, err
	}
	requested := nameSet(names)

	var summary []string

	if requested[RemoveDuplicates] {
		removed := removeDuplicates(sheet)
		summary = append(summary, fmt.Sprintf("Removed %d duplicate rows.", removed))
	}

	if requested[FillMissing] {
		filled := fillMissing(sheet)
		summary = append(summary, fmt.Sprintf("Filled %d missing values with 0.", filled))
	}

	if requested[AutoBalance] && sheet.HasColumn("Debit") && sheet.HasColumn("Credit") {
		balanced := autoBalance(sheet, true)
		summary = append(summary, fmt.Sprintf("Auto-balanced %d small rounding errors (≤ 1 cent).", balanced))
	}

	return summary, nil
}

// Preview reports what Apply would do without mutating the sheet. An empty
// outcome yields the single line "No changes would be made.".
func Preview(sheet *models.Sheet, names []string) ([]string, error) {
	if err := validate(names); err != nil {
		return nil, err
	}
	requested := nameSet(names)

	var preview []string

	if requested[RemoveDuplicates] {
		preview = append(preview, fmt.Sprintf("Would remove %d duplicate rows.", countDuplicates(sheet)))
	}

	if requested[FillMissing] {
		preview = append(preview, fmt.Sprintf("Would fill %d missing values with 0.", countMissing(sheet)))
	}

	if requested[AutoBalance] && sheet.HasColumn("Debit") && sheet.HasColumn("Credit") {
		preview = append(preview, fmt.Sprintf("Would auto-balance %d small rounding errors (≤ 1 cent).", autoBalance(sheet, false)))
	}

	if len(preview) == 0 {
		preview = append(preview, "No changes would be made.")
	}

	return preview, nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// removeDuplicates drops every row that exactly duplicates an earlier row
// and returns the number removed.
func removeDuplicates(sheet *models.Sheet) int {
	kept := sheet.Rows[:0]
	removed := 0
	for i, row := range sheet.Rows {
		duplicate := false
		for j := 0; j < i && !duplicate; j++ {
			duplicate = row.Equal(sheet.Rows[j], sheet.Columns)
		}
		if duplicate {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	sheet.Rows = kept
	return removed
}

func countDuplicates(sheet *models.Sheet) int {
	count := 0
	for i, row := range sheet.Rows {
		for j := 0; j < i; j++ {
			if row.Equal(sheet.Rows[j], sheet.Columns) {
				count++
				break
			}
		}
	}
	return count
}

// fillMissing replaces every null cell with numeric zero and returns the
// number filled.
func fillMissing(sheet *models.Sheet) int {
	filled := 0
	for _, row := range sheet.Rows {
		for _, col := range sheet.Columns {
			if row.Cell(col).IsMissing() {
				row[col] = models.NumberCell(decimal.Zero)
				filled++
			}
		}
	}
	return filled
}

func countMissing(sheet *models.Sheet) int {
	count := 0
	for _, row := range sheet.Rows {
		for _, col := range sheet.Columns {
			if row.Cell(col).IsMissing() {
				count++
			}
		}
	}
	return count
}

// autoBalance equalizes rows whose debit and credit disagree by no more
// than one cent, raising the smaller side to the larger. Missing cells
// count as zero; rows with non-numeric text in either column are skipped.
// When mutate is false it only counts the candidate rows.
func autoBalance(sheet *models.Sheet, mutate bool) int {
	count := 0
	for i, row := range sheet.Rows {
		debit, ok := balanceValue(row.Cell("Debit"))
		if !ok {
			continue
		}
		credit, ok := balanceValue(row.Cell("Credit"))
		if !ok {
			continue
		}

		diff := debit.Sub(credit)
		if diff.IsZero() || diff.Abs().GreaterThan(balanceTolerance) {
			continue
		}
		count++
		if !mutate {
			continue
		}
		if debit.GreaterThan(credit) {
			sheet.SetCell(i, "Credit", models.NumberCell(debit))
		} else {
			sheet.SetCell(i, "Debit", models.NumberCell(credit))
		}
	}
	return count
}

// balanceValue coerces a debit/credit cell for auto-balance: missing and
// blank cells are zero, numbers are themselves, and anything non-numeric
// disqualifies the row.
func balanceValue(cell models.Cell) (decimal.Decimal, bool) {
	if cell.IsEmpty() {
		return decimal.Zero, true
	}
	return cell.AsNumber()
}
