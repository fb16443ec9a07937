package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail := New(path)
	trail.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	if err := trail.Record(ActionUpload, "", "File uploaded: ledger.csv (1024 bytes)"); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := trail.Record(ActionEditCell, "carol", "Sheet Journal, Row 3, Column Debit, Value 100"); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}

	want := []string{
		"[2025-03-14 09:26:53] ACTION: upload USER: anonymous DETAILS: File uploaded: ledger.csv (1024 bytes)",
		"[2025-03-14 09:26:53] ACTION: edit_cell USER: carol DETAILS: Sheet Journal, Row 3, Column Debit, Value 100",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i+1, lines[i], want[i])
		}
	}
}

func TestRecord_NoDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail := New(path)
	trail.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	if err := trail.Record(ActionBulkFix, "", ""); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	if got, want := strings.TrimRight(string(raw), "\n"), "[2025-03-14 09:26:53] ACTION: bulk_fix USER: anonymous"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestNew_DefaultPath(t *testing.T) {
	if trail := New(""); trail.path != DefaultPath {
		t.Errorf("path = %q, want %q", trail.path, DefaultPath)
	}
}
