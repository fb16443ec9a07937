package exporter

import (
	"bytes"
	"html/template"
	"strconv"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/models"
)

// ReportName is the download filename for the HTML report.
const ReportName = "financial_report.html"

// reportPreviewRows caps the data preview table in the report.
const reportPreviewRows = 10

// Report bundles everything the HTML summary report renders.
type Report struct {
	Sheet    *models.Sheet
	Findings []models.Finding
	Fixes    []string
	Summary  []string
}

type reportRow struct {
	Row   string
	Issue string
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>Financial Data Report</title></head>
<body>
<h1>Financial Data Summary Report</h1>
<h2>Fixes Applied</h2>
<ul>
{{- range .Fixes}}
<li>{{.}}</li>
{{- end}}
</ul>
<h2>Errors</h2>
<ul>
{{- range .Findings}}
<li>Row {{.Row}}: {{.Issue}}</li>
{{- end}}
</ul>
<h2>Summary</h2>
<ul>
{{- range .Summary}}
<li>{{.}}</li>
{{- end}}
</ul>
<h2>Data Preview</h2>
<table border="1">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`))

// HTMLReport renders the report for download. The data preview shows at
// most the first ten rows of the sheet.
func HTMLReport(report Report) ([]byte, error) {
	data := struct {
		Fixes    []string
		Findings []reportRow
		Summary  []string
		Columns  []string
		Rows     [][]string
	}{
		Fixes:   report.Fixes,
		Summary: report.Summary,
	}

	for _, f := range report.Findings {
		row := "?"
		if f.Row != nil {
			row = strconv.Itoa(*f.Row)
		}
		data.Findings = append(data.Findings, reportRow{Row: row, Issue: f.Issue})
	}

	if report.Sheet != nil {
		data.Columns = report.Sheet.Columns
		for _, row := range report.Sheet.Head(reportPreviewRows) {
			record := make([]string, len(report.Sheet.Columns))
			for i, col := range report.Sheet.Columns {
				record[i] = row.Cell(col).String()
			}
			data.Rows = append(data.Rows, record)
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, apperrors.InternalError("rendering report", err)
	}
	return buf.Bytes(), nil
}
