// Package exporter renders a workbook back out of the service: per-sheet
// CSV, a ZIP of all sheets, a single XLSX workbook and a downloadable HTML
// report.
package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"strings"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/models"

	"github.com/xuri/excelize/v2"
)

// ZipName is the download filename for the all-sheets archive.
const ZipName = "ledgerlift_export.zip"

// XLSXName is the download filename for the Excel export.
const XLSXName = "ledgerlift_export.xlsx"

// CSVFilename is the per-sheet download filename, with spaces replaced by
// underscores.
func CSVFilename(sheetName string) string {
	return strings.ReplaceAll(sheetName, " ", "_") + ".csv"
}

// CSV renders one sheet as CSV bytes, header row first. Missing cells
// become empty fields.
func CSV(sheet *models.Sheet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(sheet.Columns); err != nil {
		return nil, apperrors.InternalError("writing CSV header", err)
	}
	record := make([]string, len(sheet.Columns))
	for _, row := range sheet.Rows {
		for i, col := range sheet.Columns {
			record[i] = row.Cell(col).String()
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.InternalError("writing CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.InternalError("flushing CSV", err)
	}
	return buf.Bytes(), nil
}

// ZIP renders every sheet of the workbook as <name>.csv inside one
// deflate-compressed archive, in workbook order.
func ZIP(workbook *models.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range workbook.Names {
		sheet, ok := workbook.Sheet(name)
		if !ok {
			continue
		}
		data, err := CSV(sheet)
		if err != nil {
			return nil, err
		}
		entry, err := zw.Create(CSVFilename(name))
		if err != nil {
			return nil, apperrors.InternalError("creating ZIP entry", err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, apperrors.InternalError("writing ZIP entry", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, apperrors.InternalError("closing ZIP", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the workbook as a single Excel file, one worksheet per
// sheet. Numbers stay numeric, booleans stay boolean, formula sources are
// written as formulas.
func XLSX(workbook *models.Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range workbook.Names {
		sheet, ok := workbook.Sheet(name)
		if !ok {
			continue
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, apperrors.InternalError("renaming worksheet", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, apperrors.InternalError("creating worksheet", err)
			}
		}
		if err := writeSheet(f, name, sheet); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.InternalError("serializing workbook", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, sheet *models.Sheet) error {
	for i, col := range sheet.Columns {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return apperrors.InternalError("addressing header cell", err)
		}
		if err := f.SetCellValue(name, cellRef, col); err != nil {
			return apperrors.InternalError("writing header cell", err)
		}
	}

	for r, row := range sheet.Rows {
		for c, col := range sheet.Columns {
			cell := row.Cell(col)
			if cell.IsMissing() {
				continue
			}
			cellRef, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return apperrors.InternalError("addressing data cell", err)
			}
			switch cell.Kind {
			case models.CellNumber:
				value, _ := cell.Number.Float64()
				err = f.SetCellValue(name, cellRef, value)
			case models.CellBool:
				err = f.SetCellValue(name, cellRef, cell.Bool)
			case models.CellFormula:
				err = f.SetCellFormula(name, cellRef, strings.TrimPrefix(cell.Text, "="))
			default:
				err = f.SetCellValue(name, cellRef, cell.Text)
			}
			if err != nil {
				return apperrors.InternalError("writing data cell", err)
			}
		}
	}
	return nil
}
