// Package rules implements the bookkeeping-correctness checks: the sheet
// classifier, the per-category validation catalog, the category-agnostic
// quick checks and the user-supplied custom-rule evaluator.
//
// Checks emit models.Finding values in a stable order and never mutate the
// sheet. Numeric comparisons use an absolute tolerance of 0.01 currency
// units; cells that fail numeric coercion are treated as missing or zero
// rather than escalated to errors.
package rules

import (
	"strings"

	"golang-ledger-validation-service/internal/models"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute currency tolerance used by every balance
// comparison.
var Tolerance = decimal.RequireFromString("0.01")

// categoryPrecedence is the fixed, ordered keyword list the classifier
// matches against. The first matching keyword wins; a sheet named
// "Trial Balance Journal" is therefore a journal, never a trial balance.
var categoryPrecedence = []struct {
	keyword  string
	category models.Category
}{
	{"chart", models.CategoryChart},
	{"journal", models.CategoryJournal},
	{"trial", models.CategoryTrial},
	{"income", models.CategoryStatement},
	{"balance", models.CategoryStatement},
}

// Classify maps a sheet name to its category by case-insensitive substring
// match against the precedence list. Unmatched names classify as other and
// receive only the category-agnostic checks.
func Classify(sheetName string) models.Category {
	lower := strings.ToLower(sheetName)
	for _, entry := range categoryPrecedence {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return models.CategoryOther
}

// IsIncomeSheet reports whether the sheet name reads as an income
// statement.
func IsIncomeSheet(sheetName string) bool {
	return strings.Contains(strings.ToLower(sheetName), "income")
}

// IsBalanceSheet reports whether the sheet name reads as a balance sheet.
func IsBalanceSheet(sheetName string) bool {
	return strings.Contains(strings.ToLower(sheetName), "balance")
}
