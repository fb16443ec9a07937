// Package formula flags suspicious spreadsheet formulas on financial
// statements. The checks are text heuristics over the formula source, not a
// formula parser: hardcoded totals, references to empty cells and naive
// same-row self-references.
package formula

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/internal/models"
)

// Audit scans every formula cell of the sheet and returns one finding per
// triggered heuristic, in row-then-column order. A single cell can trigger
// more than one heuristic.
func Audit(sheet *models.Sheet) []models.Finding {
	var findings []models.Finding

	for i, row := range sheet.Rows {
		for _, col := range sheet.Columns {
			cell := row.Cell(col)
			if cell.Kind != models.CellFormula {
				continue
			}
			source := cell.Text
			position := i + 1

			if isHardcodedValue(strings.TrimPrefix(source, "=")) {
				findings = append(findings, models.RowFinding(position,
					fmt.Sprintf("Formula in %s is hardcoded value: %s", col, source)))
			}

			if strings.Contains(source, `""`) || strings.Contains(strings.ToUpper(source), "BLANK") {
				findings = append(findings, models.RowFinding(position,
					fmt.Sprintf("Formula in %s references empty cell: %s", col, source)))
			}

			// The spreadsheet cell for sheet row i sits at worksheet row
			// i+2 (one for the header). The reference guess uses the first
			// byte of the column name, which is only right for
			// single-letter columns; kept as a coarse tripwire.
			if col != "" {
				selfRef := fmt.Sprintf("%c%d", col[0], i+2)
				if strings.Contains(source, selfRef) {
					findings = append(findings, models.RowFinding(position,
						fmt.Sprintf("Possible circular reference in %s: %s", col, source)))
				}
			}
		}
	}

	return findings
}

// isHardcodedValue reports whether the formula body is a bare unsigned
// decimal literal: digits with at most one dot and nothing else.
func isHardcodedValue(body string) bool {
	body = strings.Replace(body, ".", "", 1)
	if body == "" {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
