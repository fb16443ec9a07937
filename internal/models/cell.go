// Package models defines the in-memory representation of an uploaded
// workbook: sheets of typed cells, findings emitted by checks, and the
// coercion helpers shared by the validation rules.
//
// A cell is a tagged union rather than an interface{} so each check can
// match exhaustively on the kind instead of relying on runtime type
// inspection. Numbers are decimal values to keep currency arithmetic exact.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind discriminates the possible cell value types.
type CellKind int

const (
	// CellMissing represents a null/absent value.
	CellMissing CellKind = iota
	// CellNumber represents a numeric value.
	CellNumber
	// CellText represents a plain text value.
	CellText
	// CellFormula represents a spreadsheet formula (text starting with '=').
	CellFormula
	// CellBool represents a boolean value.
	CellBool
)

// String returns the string representation of the CellKind.
func (k CellKind) String() string {
	switch k {
	case CellMissing:
		return "missing"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellFormula:
		return "formula"
	case CellBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Cell is one typed spreadsheet cell.
//
// Only the field matching Kind is meaningful; Text carries the full source
// text for both CellText and CellFormula (including the leading '=').
type Cell struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
	Bool   bool
}

// MissingCell returns a null cell.
func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// NumberCell returns a numeric cell.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// NumberCellFromFloat returns a numeric cell from a float value.
func NumberCellFromFloat(f float64) Cell {
	return Cell{Kind: CellNumber, Number: decimal.NewFromFloat(f)}
}

// TextCell returns a plain text cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// FormulaCell returns a formula cell from its source text.
func FormulaCell(s string) Cell {
	return Cell{Kind: CellFormula, Text: s}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{Kind: CellBool, Bool: b}
}

// ParseCell sniffs the cell kind from raw field text, the way parsed
// uploads populate sheets: empty text is missing, a leading '=' is a
// formula, numeric text (currency symbols and thousand separators allowed)
// is a number, true/false is a boolean, anything else is text.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return MissingCell()
	}
	if strings.HasPrefix(trimmed, "=") {
		return FormulaCell(trimmed)
	}
	if d, err := ParseAmount(trimmed); err == nil {
		return NumberCell(d)
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return BoolCell(true)
	case "false":
		return BoolCell(false)
	}
	return TextCell(raw)
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// IsEmpty reports whether the cell is missing or blank after trimming.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellMissing:
		return true
	case CellText, CellFormula:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// AsNumber coerces the cell to a decimal number. Text cells are parsed
// leniently (currency symbols and thousand separators stripped); cells that
// cannot be coerced report false rather than an error, matching the
// leniency policy of the validation checks.
func (c Cell) AsNumber() (decimal.Decimal, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		d, err := ParseAmount(c.Text)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// String returns the display form of the cell value.
func (c Cell) String() string {
	switch c.Kind {
	case CellMissing:
		return ""
	case CellNumber:
		return c.Number.String()
	case CellText, CellFormula:
		return c.Text
	case CellBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Equal compares two cells for exact equality; used by duplicate-row
// detection.
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case CellMissing:
		return true
	case CellNumber:
		return c.Number.Equal(other.Number)
	case CellText, CellFormula:
		return c.Text == other.Text
	case CellBool:
		return c.Bool == other.Bool
	default:
		return false
	}
}

// MarshalJSON renders the cell as its natural JSON value: null, number,
// string or boolean.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellMissing:
		return []byte("null"), nil
	case CellNumber:
		return []byte(c.Number.String()), nil
	case CellText, CellFormula:
		return json.Marshal(c.Text)
	case CellBool:
		return json.Marshal(c.Bool)
	default:
		return nil, fmt.Errorf("unknown cell kind %d", c.Kind)
	}
}

// ParseAmount parses a decimal value from string, stripping common currency
// symbols and thousand separators first.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}
	return d, nil
}

// dateFormats are the calendar date formats accepted by ParseDate, in the
// order they are tried.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate attempts to parse a calendar date using the common formats
// found in accounting spreadsheets.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	var lastErr error
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// IsValidDate reports whether the cell holds a parseable calendar date.
// Numeric cells are accepted as serial/epoch-style dates, matching the
// lenient coercion the journal checks expect.
func (c Cell) IsValidDate() bool {
	switch c.Kind {
	case CellText:
		_, err := ParseDate(c.Text)
		return err == nil
	case CellNumber:
		return true
	default:
		return false
	}
}
