package models

// Finding is one reported issue: row-scoped when Row is set, sheet-scoped
// when Row is nil. Findings are never deduplicated or ranked; order of
// appearance is the emission order of the producing check.
type Finding struct {
	Row   *int   `json:"row"`
	Issue string `json:"issue"`
}

// RowFinding creates a finding scoped to a 1-based row position.
func RowFinding(row int, issue string) Finding {
	return Finding{Row: &row, Issue: issue}
}

// SheetFinding creates a sheet-level finding.
func SheetFinding(issue string) Finding {
	return Finding{Issue: issue}
}

// IsSheetLevel reports whether the finding applies to the whole sheet.
func (f Finding) IsSheetLevel() bool {
	return f.Row == nil
}

// Category is the classifier output steering which checks run on a sheet.
// It is derived from the sheet name on every request and never stored.
type Category string

const (
	// CategoryChart marks chart-of-accounts sheets.
	CategoryChart Category = "chart"
	// CategoryJournal marks journal-entry sheets.
	CategoryJournal Category = "journal"
	// CategoryTrial marks trial-balance sheets.
	CategoryTrial Category = "trial"
	// CategoryStatement marks income-statement and balance-sheet sheets.
	CategoryStatement Category = "statement"
	// CategoryOther marks sheets with no category-specific checks.
	CategoryOther Category = "other"
)
