package parsers

import (
	"fmt"
	"strings"
)

// UploadConfig holds the acceptance limits for uploaded workbook files.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted upload size in bytes.
	MaxFileSize int
	// AllowedExtensions lists the accepted filename extensions, lower-case
	// with leading dot.
	AllowedExtensions []string
	// Delimiter is the CSV field delimiter.
	Delimiter rune
	// SkipMalformedRows drops CSV records that cannot be read instead of
	// failing the whole upload.
	SkipMalformedRows bool
}

// DefaultUploadConfig returns the standard acceptance limits: 5 MiB, CSV or
// XLSX, comma-delimited, malformed rows skipped.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:       5 * 1024 * 1024,
		AllowedExtensions: []string{".csv", ".xlsx"},
		Delimiter:         ',',
		SkipMalformedRows: true,
	}
}

// Validate validates the upload configuration.
func (c *UploadConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed extension is required")
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be zero")
	}
	return nil
}

// Allowed reports whether the filename carries an accepted extension.
func (c *UploadConfig) Allowed(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range c.AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
