// Package auditlog appends a human-readable trail of workbook operations
// to a log file. Each entry is a single line; the file is opened per write
// so external log rotation never holds a stale handle.
package auditlog

import (
	"fmt"
	"os"
	"sync"
	"time"

	apperrors "golang-ledger-validation-service/pkg/errors"
)

// DefaultPath is the audit trail location when none is configured.
const DefaultPath = "audit.log"

// Actions recorded by the service.
const (
	ActionUpload         = "upload"
	ActionUploadRejected = "upload_rejected"
	ActionBulkFix        = "bulk_fix"
	ActionEditCell       = "edit_cell"
)

// Trail is an append-only audit log. The zero value is not usable; create
// one with New. Writes are serialized so concurrent requests never
// interleave lines.
type Trail struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Trail writing to the given path, or to DefaultPath when
// path is empty.
func New(path string) *Trail {
	if path == "" {
		path = DefaultPath
	}
	return &Trail{path: path, now: time.Now}
}

// Record appends one entry. An empty user is recorded as "anonymous".
func (t *Trail) Record(action, user, details string) error {
	if user == "" {
		user = "anonymous"
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CategoryInternal, apperrors.CodeUnexpectedError,
			fmt.Sprintf("opening audit log %s", t.path))
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] ACTION: %s USER: %s", t.now().Format("2006-01-02 15:04:05"), action, user)
	if details != "" {
		line += " DETAILS: " + details
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		return apperrors.Wrap(err, apperrors.CategoryInternal, apperrors.CodeUnexpectedError,
			"writing audit log entry")
	}
	return nil
}
