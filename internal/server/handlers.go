package server

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/fixes"
	"golang-ledger-validation-service/internal/mailer"
	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/internal/rules"
)

// readUpload pulls the "file" part of a multipart request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, "", apperrors.New(apperrors.CategoryFile, apperrors.CodeFileTooLarge,
			"upload form too large or malformed")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", apperrors.New(apperrors.CategoryValidation, apperrors.CodeParseFailed,
			"no file provided").WithSuggestion("Attach the workbook as the 'file' form field")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", apperrors.InternalError("reading upload", err)
	}
	return raw, header.Filename, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	raw, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.SubmitWorkbook(session(r), raw, filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkFix(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.CategoryValidation, apperrors.CodeParseFailed,
			"malformed form body"))
		return
	}
	names, err := fixes.Parse(r.FormValue("fixes"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.service.ApplyFixes(session(r), r.FormValue("sheet"), names)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleBulkFixPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet string   `json:"sheet"`
		Fixes []string `json:"fixes"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	preview, err := s.service.PreviewFixes(session(r), req.Sheet, req.Fixes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"preview": preview})
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	sheet := r.URL.Query().Get("sheet")
	if sheet != "" {
		data, filename, err := s.service.Export(session(r), sheet)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeAttachment(w, "text/csv", filename, data)
		return
	}

	data, filename, err := s.service.ExportAll(session(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAttachment(w, "application/zip", filename, data)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.service.ExportXLSX(session(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, data)
}

func (s *Server) handleCustomErrors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet string             `json:"sheet"`
		Rules []rules.CustomRule `json:"rules"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	findings, err := s.service.CustomScan(session(r), req.Sheet, req.Rules)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if findings == nil {
		findings = []models.Finding{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.Finding{"custom_errors": findings})
}

func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet  string `json:"sheet"`
		Row    int    `json:"row"`
		Column string `json:"column"`
		Value  string `json:"value"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.service.EditCell(session(r), req.Sheet, req.Row, req.Column, req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleQuickScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet              string   `json:"sheet"`
		DateColumn         string   `json:"date_column"`
		CodeColumn         string   `json:"code_column"`
		Chart              []string `json:"chart"`
		RequiredCategories []string `json:"required_categories"`
		CategoryColumn     string   `json:"category_column"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	opts := rules.QuickScanOptions{
		DateColumn:         req.DateColumn,
		CodeColumn:         req.CodeColumn,
		RequiredCategories: req.RequiredCategories,
		CategoryColumn:     req.CategoryColumn,
	}
	if len(req.Chart) > 0 {
		opts.Chart = make(map[string]bool, len(req.Chart))
		for _, code := range req.Chart {
			opts.Chart[code] = true
		}
	}

	findings, err := s.service.QuickScan(session(r), req.Sheet, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if findings == nil {
		findings = []models.Finding{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.Finding{"findings": findings})
}

func (s *Server) handleAnalyzeSheets(w http.ResponseWriter, r *http.Request) {
	raw, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	info, err := s.service.AnalyzeSheets(raw, filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_sheets": len(info),
		"sheets":       info,
	})
}

func (s *Server) handleFinancialReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet   string           `json:"sheet"`
		Errors  []models.Finding `json:"errors"`
		Fixes   []string         `json:"fixes"`
		Summary []string         `json:"summary"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	page, filename, err := s.service.HTMLReport(session(r), req.Sheet, req.Errors, req.Fixes, req.Summary)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAttachment(w, "text/html; charset=utf-8", filename, page)
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recipient string `json:"recipient"`
		Subject   string `json:"subject"`
		Body      string `json:"body"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if s.mailer == nil {
		s.writeError(w, r, apperrors.ConfigurationError(apperrors.CodeMissingConfig, "SMTP_HOST", nil))
		return
	}

	err := s.mailer.Send(mailer.Message{Recipient: req.Recipient, Subject: req.Subject, Body: req.Body})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decode reads a JSON request body, responding with a parse error on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, apperrors.Wrap(err, apperrors.CategoryValidation, apperrors.CodeParseFailed,
			"malformed JSON body"))
		return false
	}
	return true
}
