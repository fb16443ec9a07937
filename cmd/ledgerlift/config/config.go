// Package config assembles the component configurations the CLI commands
// need, layering defaults, flags and environment variables.
package config

import (
	"github.com/spf13/viper"

	"golang-ledger-validation-service/pkg/logger"

	"golang-ledger-validation-service/internal/mailer"
	"golang-ledger-validation-service/internal/parsers"
)

// CreateLoggerConfig builds the logging configuration; verbose switches to
// debug level with text output for interactive use.
func CreateLoggerConfig(verbose bool) *logger.Config {
	if verbose {
		return logger.DebugConfig()
	}
	return logger.DefaultConfig()
}

// CreateUploadConfig builds the upload parser configuration, applying the
// max-upload override when positive.
func CreateUploadConfig(maxBytes int64) *parsers.UploadConfig {
	config := parsers.DefaultUploadConfig()
	if maxBytes > 0 {
		config.MaxFileSize = int(maxBytes)
	}
	return config
}

// CreateMailerConfig reads the SMTP settings from the environment. The
// variable names match the original deployment convention: SMTP_HOST,
// SMTP_PORT, SMTP_USER, SMTP_PASS and optionally SMTP_SENDER.
func CreateMailerConfig() mailer.Config {
	v := viper.New()
	v.BindEnv("host", "SMTP_HOST")
	v.BindEnv("port", "SMTP_PORT")
	v.BindEnv("user", "SMTP_USER")
	v.BindEnv("pass", "SMTP_PASS")
	v.BindEnv("sender", "SMTP_SENDER")
	v.SetDefault("port", 587)

	return mailer.Config{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		Username: v.GetString("user"),
		Password: v.GetString("pass"),
		Sender:   v.GetString("sender"),
	}
}

// AuditLogPath resolves the audit trail location, preferring the flag over
// the LEDGERLIFT_AUDIT_LOG environment variable.
func AuditLogPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("audit_log")
}
