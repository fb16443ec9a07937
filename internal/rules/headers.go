package rules

import (
	"strings"

	"golang-ledger-validation-service/internal/models"
)

// headerLabels are the account labels that mark a row as a section header
// or total line rather than a postable entry.
var headerLabels = map[string]bool{
	"assets":           true,
	"liabilities":      true,
	"equity":           true,
	"revenue":          true,
	"expenses":         true,
	"contra revenue":   true,
	"contra asset":     true,
	"total":            true,
	"net income":       true,
	"gross profit":     true,
	"operating income": true,
}

// IsHeaderRow reports whether a journal or statement row is a section
// header or total row, which the row-level content checks skip.
//
// A row is a header when its Account label (lower-cased, trimmed) is a
// known section label or starts with "total", or when the sheet carries an
// Account Number column and this row's value there is empty, "nan" or
// "none". The account-number clause only applies when the column exists;
// sheets without one are all postable rows.
func IsHeaderRow(sheet *models.Sheet, row models.Row) bool {
	accountName := strings.ToLower(strings.TrimSpace(row.Cell("Account").String()))
	if headerLabels[accountName] || strings.HasPrefix(accountName, "total") {
		return true
	}

	if sheet.HasColumn("Account Number") {
		accountNumber := strings.ToLower(strings.TrimSpace(row.Cell("Account Number").String()))
		if accountNumber == "" || accountNumber == "nan" || accountNumber == "none" {
			return true
		}
	}

	return false
}
