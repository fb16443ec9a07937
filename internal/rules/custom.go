package rules

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/internal/models"
)

// Condition is a custom-rule comparison operator.
type Condition string

const (
	ConditionGreater      Condition = ">"
	ConditionLess         Condition = "<"
	ConditionGreaterEqual Condition = ">="
	ConditionLessEqual    Condition = "<="
	ConditionEqual        Condition = "=="
	ConditionNotEqual     Condition = "!="
	ConditionEmpty        Condition = "empty"
	ConditionNotEmpty     Condition = "notempty"
)

// CustomRule is one user-supplied column/condition/value predicate.
type CustomRule struct {
	Column    string    `json:"column"`
	Condition Condition `json:"condition"`
	Value     string    `json:"value"`
}

// EvaluateCustomRules applies the rules against the sheet and returns one
// finding per matching cell, ordered by rule then row.
//
// Numeric conditions coerce both the cell and the rule value to numbers;
// cells (or rule values) that fail coercion silently fail to match. String
// equality compares display forms. Empty treats missing and
// blank-after-trim as empty. A rule naming an unknown column is skipped
// entirely, as is a rule with an unknown condition.
func EvaluateCustomRules(sheet *models.Sheet, ruleList []CustomRule) []models.Finding {
	var findings []models.Finding

	for _, rule := range ruleList {
		if !sheet.HasColumn(rule.Column) {
			continue
		}

		for i, row := range sheet.Rows {
			if !matches(row.Cell(rule.Column), rule) {
				continue
			}
			findings = append(findings, models.RowFinding(i+1,
				fmt.Sprintf("Custom rule: %s %s %s", rule.Column, rule.Condition, rule.Value)))
		}
	}

	return findings
}

// matches evaluates one rule against one cell.
func matches(cell models.Cell, rule CustomRule) bool {
	switch rule.Condition {
	case ConditionGreater, ConditionLess, ConditionGreaterEqual, ConditionLessEqual:
		cellNum, ok := cell.AsNumber()
		if !ok {
			return false
		}
		ruleNum, err := models.ParseAmount(rule.Value)
		if err != nil {
			return false
		}
		switch rule.Condition {
		case ConditionGreater:
			return cellNum.GreaterThan(ruleNum)
		case ConditionLess:
			return cellNum.LessThan(ruleNum)
		case ConditionGreaterEqual:
			return cellNum.GreaterThanOrEqual(ruleNum)
		default:
			return cellNum.LessThanOrEqual(ruleNum)
		}
	case ConditionEqual:
		return cell.String() == rule.Value
	case ConditionNotEqual:
		return cell.String() != rule.Value
	case ConditionEmpty:
		return isEmptyValue(cell)
	case ConditionNotEmpty:
		return !isEmptyValue(cell)
	default:
		return false
	}
}

// isEmptyValue treats missing cells and blank-after-trim text as empty.
func isEmptyValue(cell models.Cell) bool {
	if cell.IsMissing() {
		return true
	}
	return strings.TrimSpace(cell.String()) == ""
}
