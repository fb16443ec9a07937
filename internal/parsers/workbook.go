// Package parsers turns uploaded CSV and Excel files into in-memory
// workbooks.
//
// A CSV upload becomes a single-sheet workbook named "CSV"; an XLSX upload
// becomes one sheet per worksheet, in workbook order. Cell typing is
// delegated to models.ParseCell so both formats produce the same tagged
// cell values.
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/pkg/errors"
	"golang-ledger-validation-service/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// CSVSheetName is the sheet name assigned to a parsed CSV upload.
const CSVSheetName = "CSV"

// WorkbookParser parses uploaded file bytes into workbooks.
type WorkbookParser struct {
	config *UploadConfig
	logger logger.Logger
}

// NewWorkbookParser creates a parser with the given acceptance limits.
func NewWorkbookParser(config *UploadConfig) (*WorkbookParser, error) {
	if config == nil {
		config = DefaultUploadConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid upload configuration: %w", err)
	}
	return &WorkbookParser{
		config: config,
		logger: logger.WithComponent("workbook_parser"),
	}, nil
}

// Parse validates the upload limits and parses the raw bytes into a
// workbook. The filename extension selects the format.
func (p *WorkbookParser) Parse(raw []byte, filename string) (*models.Workbook, error) {
	log := p.logger.WithFields(logger.Fields{
		"filename":   filename,
		"size_bytes": len(raw),
	})
	log.Info("Parsing uploaded file")

	if !p.config.Allowed(filename) {
		log.Warn("Rejected upload: invalid file type")
		return nil, errors.UploadError(errors.CodeInvalidFileType, filename, len(raw))
	}
	if len(raw) > p.config.MaxFileSize {
		log.Warn("Rejected upload: file too large")
		return nil, errors.UploadError(errors.CodeFileTooLarge, filename, len(raw))
	}

	var (
		wb  *models.Workbook
		err error
	)
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		wb, err = p.parseCSV(raw)
	} else {
		wb, err = p.parseXLSX(raw)
	}
	if err != nil {
		log.WithError(err).Error("Parse failed")
		return nil, errors.ParseError(filename, err)
	}

	if wb.Len() == 0 {
		log.Error("No sheets found in the uploaded file")
		return nil, errors.New(errors.CategoryParse, errors.CodeEmptyWorkbook,
			fmt.Sprintf("no sheets found in %s", filename)).
			WithSuggestion("ensure the file contains at least one worksheet with a header row")
	}

	log.WithField("sheets", wb.Names).Info("Parsed workbook")
	return wb, nil
}

// parseCSV parses comma-separated bytes into a single-sheet workbook.
func (p *WorkbookParser) parseCSV(raw []byte) (*models.Workbook, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("invalid UTF-8 encoding")
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("file is empty")
		}
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	columns := cleanHeader(header)
	sheet := models.NewSheet(CSVSheetName, columns)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if p.config.SkipMalformedRows {
				p.logger.WithError(err).Warn("Skipping malformed CSV record")
				continue
			}
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if isEmptyRecord(record) {
			continue
		}
		sheet.Rows = append(sheet.Rows, recordToRow(columns, record))
	}

	wb := models.NewWorkbook()
	wb.Add(sheet)
	return wb, nil
}

// parseXLSX parses Excel bytes into a workbook with one sheet per
// worksheet.
func (p *WorkbookParser) parseXLSX(raw []byte) (*models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	wb := models.NewWorkbook()
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		columns := cleanHeader(rows[0])
		sheet := models.NewSheet(sheetName, columns)
		for _, record := range rows[1:] {
			if isEmptyRecord(record) {
				continue
			}
			sheet.Rows = append(sheet.Rows, recordToRow(columns, record))
		}
		wb.Add(sheet)
	}
	return wb, nil
}

// SheetInfo describes one worksheet without retaining its data.
type SheetInfo struct {
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
}

// Analyze inspects an Excel upload and reports its worksheets without
// storing any data.
func (p *WorkbookParser) Analyze(raw []byte, filename string) ([]SheetInfo, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return nil, errors.UploadError(errors.CodeInvalidFileType, filename, len(raw)).
			WithSuggestion("sheet analysis only works with Excel files (.xlsx, .xls)")
	}

	wb, err := p.parseXLSX(raw)
	if err != nil {
		return nil, errors.ParseError(filename, err)
	}

	infos := make([]SheetInfo, 0, wb.Len())
	for _, name := range wb.Names {
		sheet := wb.Sheets[name]
		infos = append(infos, SheetInfo{
			Name:        name,
			Rows:        len(sheet.Rows),
			Columns:     len(sheet.Columns),
			ColumnNames: sheet.Columns,
		})
	}
	return infos, nil
}

// cleanHeader trims header names and gives blank headers a stable
// placeholder so every column has a usable key.
func cleanHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}
	return columns
}

// recordToRow maps record fields onto the column list. Short records pad
// with missing cells; extra fields beyond the header are dropped.
func recordToRow(columns []string, record []string) models.Row {
	row := make(models.Row, len(columns))
	for i, col := range columns {
		if i < len(record) {
			row[col] = models.ParseCell(record[i])
		} else {
			row[col] = models.MissingCell()
		}
	}
	return row
}

// isEmptyRecord checks if all fields in a record are empty or whitespace.
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
