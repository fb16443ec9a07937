// Package reconcile cross-checks the financial statements of a workbook
// against each other: net income against the retained-earnings change, and
// total assets against total liabilities and equity.
package reconcile

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/internal/rules"

	"github.com/shopspring/decimal"
)

// Key is the synthetic sheet name cross-sheet findings are reported under.
const Key = "Cross-Sheet"

// capture holds one reconciliation figure once a row has supplied it.
type capture struct {
	value decimal.Decimal
	found bool
}

// set overwrites the capture. Later rows win over earlier ones.
func (c *capture) set(d decimal.Decimal) {
	c.value = d
	c.found = true
}

// Reconcile extracts the key statement figures from the workbook and
// returns a finding for each cross-sheet mismatch beyond tolerance.
//
// Net income (or net profit) is read from income-like sheets; retained
// earnings, total assets and total liabilities and equity from balance-like
// sheets. Labels match on the trimmed, lower-cased Account column and the
// figure comes from the Amount column. When several rows carry the same
// label the last one wins; a row whose Amount does not coerce to a number
// leaves the previous capture in place.
func Reconcile(workbook *models.Workbook) []models.Finding {
	var netIncome, retainedEarnings, totalAssets, totalLiabEquity capture

	for _, name := range workbook.Names {
		sheet, ok := workbook.Sheet(name)
		if !ok {
			continue
		}
		lower := strings.ToLower(name)

		if strings.Contains(lower, "income") {
			for _, row := range sheet.Rows {
				if label(row) == "net income" || label(row) == "net profit" {
					if d, ok := row.Cell("Amount").AsNumber(); ok {
						netIncome.set(d)
					}
				}
			}
		}

		if strings.Contains(lower, "balance") {
			for _, row := range sheet.Rows {
				var target *capture
				switch label(row) {
				case "retained earnings":
					target = &retainedEarnings
				case "total assets":
					target = &totalAssets
				case "total liabilities and equity":
					target = &totalLiabEquity
				default:
					continue
				}
				if d, ok := row.Cell("Amount").AsNumber(); ok {
					target.set(d)
				}
			}
		}
	}

	var findings []models.Finding

	if netIncome.found && retainedEarnings.found {
		if netIncome.value.Sub(retainedEarnings.value).Abs().GreaterThan(rules.Tolerance) {
			findings = append(findings, models.SheetFinding(fmt.Sprintf(
				"Net income from Income Statement (%s) does not match change in Retained Earnings on Balance Sheet (%s).",
				netIncome.value, retainedEarnings.value)))
		}
	}

	if totalAssets.found && totalLiabEquity.found {
		if totalAssets.value.Sub(totalLiabEquity.value).Abs().GreaterThan(rules.Tolerance) {
			findings = append(findings, models.SheetFinding(fmt.Sprintf(
				"Total Assets (%s) does not equal Total Liabilities and Equity (%s) on Balance Sheet.",
				totalAssets.value, totalLiabEquity.value)))
		}
	}

	return findings
}

func label(row models.Row) string {
	return strings.ToLower(strings.TrimSpace(row.Cell("Account").String()))
}
