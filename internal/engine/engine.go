// Package engine orchestrates the workbook lifecycle: upload, validation,
// bulk fixes, custom scans, cell edits and export. It owns the session
// store and the audit trail; the packages below it are pure functions over
// sheets.
package engine

import (
	"fmt"
	"strings"

	"golang-ledger-validation-service/pkg/logger"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/auditlog"
	"golang-ledger-validation-service/internal/exporter"
	"golang-ledger-validation-service/internal/fixes"
	"golang-ledger-validation-service/internal/formula"
	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/internal/parsers"
	"golang-ledger-validation-service/internal/reconcile"
	"golang-ledger-validation-service/internal/rules"
)

// previewRows caps the sample rows returned with uploads and fixes.
const previewRows = 5

// Service is the application core shared by the HTTP layer and the CLI.
type Service struct {
	store  *Store
	parser *parsers.WorkbookParser
	audit  *auditlog.Trail
	logger logger.Logger
}

// NewService wires the engine. A nil audit trail disables audit logging.
func NewService(parser *parsers.WorkbookParser, audit *auditlog.Trail, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		store:  NewStore(),
		parser: parser,
		audit:  audit,
		logger: log.WithComponent("engine"),
	}
}

// Store exposes the session store, for tests and shutdown hooks.
func (s *Service) Store() *Store {
	return s.store
}

// SheetPreview is the column list and leading rows returned for one sheet.
type SheetPreview struct {
	Columns []string     `json:"columns"`
	Sample  []models.Row `json:"sample"`
}

// UploadResult is the response payload of a successful upload: the sheet
// list, a preview per sheet and the full validation findings.
type UploadResult struct {
	Sheets   []string                    `json:"sheets"`
	Preview  map[string]SheetPreview     `json:"preview"`
	Findings map[string][]models.Finding `json:"errors"`
}

// SubmitWorkbook parses the upload, replaces the session's active workbook
// and runs the full validation pass. Rejected uploads are audit-logged
// with the rejection reason.
func (s *Service) SubmitWorkbook(token string, raw []byte, filename string) (*UploadResult, error) {
	workbook, err := s.parser.Parse(raw, filename)
	if err != nil {
		s.recordAudit(auditlog.ActionUploadRejected, fmt.Sprintf("%s: %s", filename, err))
		return nil, err
	}

	s.store.Replace(token, workbook)
	s.recordAudit(auditlog.ActionUpload, fmt.Sprintf("File uploaded: %s (%d bytes)", filename, len(raw)))
	s.logger.WithFields(logger.Fields{"filename": filename, "sheets": workbook.Len()}).Info("workbook uploaded")

	result := &UploadResult{
		Sheets:   append([]string(nil), workbook.Names...),
		Preview:  make(map[string]SheetPreview, workbook.Len()),
		Findings: validate(workbook),
	}
	for _, name := range workbook.Names {
		sheet := workbook.Sheets[name]
		result.Preview[name] = SheetPreview{
			Columns: sheet.Columns,
			Sample:  sheet.Head(previewRows),
		}
	}
	return result, nil
}

// ValidateWorkbook reruns the full validation pass on the stored workbook.
func (s *Service) ValidateWorkbook(token string) (map[string][]models.Finding, error) {
	var findings map[string][]models.Finding
	err := s.store.With(token, func(wb *models.Workbook) error {
		findings = validate(wb)
		return nil
	})
	return findings, err
}

// validate runs the catalog on every sheet, then the cross-sheet
// reconciler, then the formula audit on the statement sheets. The emission
// order within each sheet's findings is part of the contract.
func validate(workbook *models.Workbook) map[string][]models.Finding {
	findings := make(map[string][]models.Finding, workbook.Len())

	for _, name := range workbook.Names {
		sheet := workbook.Sheets[name]
		findings[name] = rules.Validate(sheet, rules.Classify(name))
	}

	if cross := reconcile.Reconcile(workbook); len(cross) > 0 {
		findings[reconcile.Key] = cross
	}

	for _, name := range workbook.Names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "income") && !strings.Contains(lower, "balance") {
			continue
		}
		findings[name] = append(findings[name], formula.Audit(workbook.Sheets[name])...)
	}

	return findings
}

// FixResult is the per-sheet outcome of a bulk fix: the leading rows after
// repair, the summary lines and the column list.
type FixResult struct {
	FixedEntries []models.Row `json:"fixed_entries"`
	Summary      []string     `json:"summary"`
	Columns      []string     `json:"columns"`
}

// ApplyFixes runs the named fixes against one sheet, or against every
// sheet when the name is empty or unknown. Sheets are repaired in place;
// the operation is not transactional across sheets.
func (s *Service) ApplyFixes(token, sheetName string, fixNames []string) (map[string]FixResult, error) {
	results := make(map[string]FixResult)
	err := s.store.With(token, func(wb *models.Workbook) error {
		targets := wb.Names
		if sheetName != "" {
			if _, ok := wb.Sheet(sheetName); ok {
				targets = []string{sheetName}
			}
		}

		for _, name := range targets {
			sheet := wb.Sheets[name]
			summary, err := fixes.Apply(sheet, fixNames)
			if err != nil {
				return err
			}
			results[name] = FixResult{
				FixedEntries: sheet.Head(previewRows),
				Summary:      summary,
				Columns:      sheet.Columns,
			}
		}

		s.recordAudit(auditlog.ActionBulkFix,
			fmt.Sprintf("Fixes applied: %s to sheets: %s", strings.Join(fixNames, ","), strings.Join(targets, ", ")))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PreviewFixes reports what ApplyFixes would do to the sheet without
// changing it.
func (s *Service) PreviewFixes(token, sheetName string, fixNames []string) ([]string, error) {
	var preview []string
	err := s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		preview, err = fixes.Preview(sheet, fixNames)
		return err
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

// CustomScan evaluates user-supplied rules against one sheet.
func (s *Service) CustomScan(token, sheetName string, ruleList []rules.CustomRule) ([]models.Finding, error) {
	var findings []models.Finding
	err := s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		findings = rules.EvaluateCustomRules(sheet, ruleList)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}

// QuickScan runs the category-agnostic checks against one sheet.
func (s *Service) QuickScan(token, sheetName string, opts rules.QuickScanOptions) ([]models.Finding, error) {
	var findings []models.Finding
	err := s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		findings = rules.QuickScan(sheet, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}

// EditCell overwrites a single cell, addressed by 0-based row index and
// column name. The raw value goes through the same type sniffing as an
// uploaded field.
func (s *Service) EditCell(token, sheetName string, row int, column, value string) error {
	return s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		if !sheet.SetCell(row, column, models.ParseCell(value)) {
			return apperrors.WorkbookError(apperrors.CodeInvalidCellTarget,
				fmt.Sprintf("row %d, column %s", row, column))
		}
		s.recordAudit(auditlog.ActionEditCell,
			fmt.Sprintf("Sheet %s, Row %d, Column %s, Value %s", sheet.Name, row, column, value))
		return nil
	})
}

// Export renders one sheet as CSV and returns the bytes with the download
// filename.
func (s *Service) Export(token, sheetName string) ([]byte, string, error) {
	var data []byte
	var filename string
	err := s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		data, err = exporter.CSV(sheet)
		filename = exporter.CSVFilename(sheet.Name)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, filename, nil
}

// ExportAll renders every sheet into one ZIP archive.
func (s *Service) ExportAll(token string) ([]byte, string, error) {
	var data []byte
	err := s.store.With(token, func(wb *models.Workbook) error {
		var err error
		data, err = exporter.ZIP(wb)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, exporter.ZipName, nil
}

// ExportXLSX renders the workbook as a single Excel file.
func (s *Service) ExportXLSX(token string) ([]byte, string, error) {
	var data []byte
	err := s.store.With(token, func(wb *models.Workbook) error {
		var err error
		data, err = exporter.XLSX(wb)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, exporter.XLSXName, nil
}

// HTMLReport renders the downloadable summary report for one sheet.
func (s *Service) HTMLReport(token, sheetName string, findings []models.Finding, applied, summary []string) ([]byte, string, error) {
	var page []byte
	err := s.store.With(token, func(wb *models.Workbook) error {
		sheet, err := resolveSheet(wb, sheetName)
		if err != nil {
			return err
		}
		page, err = exporter.HTMLReport(exporter.Report{
			Sheet:    sheet,
			Findings: findings,
			Fixes:    applied,
			Summary:  summary,
		})
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return page, exporter.ReportName, nil
}

// AnalyzeSheets inspects an Excel upload without storing it.
func (s *Service) AnalyzeSheets(raw []byte, filename string) ([]parsers.SheetInfo, error) {
	return s.parser.Analyze(raw, filename)
}

// resolveSheet returns the named sheet, or the first sheet when the name
// is empty. Asking for a name the workbook does not have is an error
// rather than a silent fallback.
func resolveSheet(wb *models.Workbook, name string) (*models.Sheet, error) {
	if name == "" {
		first := wb.First()
		if first == nil {
			return nil, apperrors.WorkbookError(apperrors.CodeNoActiveWorkbook, "")
		}
		return first, nil
	}
	sheet, ok := wb.Sheet(name)
	if !ok {
		return nil, apperrors.WorkbookError(apperrors.CodeUnknownSheet, name)
	}
	return sheet, nil
}

func (s *Service) recordAudit(action, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(action, "", details); err != nil {
		s.logger.WithError(err).Warn("audit log write failed")
	}
}
