package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-ledger-validation-service/cmd/ledgerlift/config"
	"golang-ledger-validation-service/pkg/logger"

	"golang-ledger-validation-service/internal/auditlog"
	"golang-ledger-validation-service/internal/engine"
	"golang-ledger-validation-service/internal/mailer"
	"golang-ledger-validation-service/internal/parsers"
	"golang-ledger-validation-service/internal/server"
)

// Flags for the serve command
var (
	serveAddr      string
	auditLogPath   string
	maxUploadBytes int64
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP API",
	Long: `Serve starts the HTTP API: workbook upload and validation, bulk fixes,
custom rules, cell edits, CSV/XLSX export and email notification.

Email requires the SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS
environment variables (SMTP_SENDER is optional); without them the
send-email route reports a configuration error and everything else works.

Examples:
  ledgerlift serve
  ledgerlift serve --addr :9000 --audit-log /var/log/ledgerlift/audit.log
  ledgerlift serve --max-upload 10485760`,

	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVar(&auditLogPath, "audit-log", "", "audit log path (default audit.log)")
	serveCmd.Flags().Int64Var(&maxUploadBytes, "max-upload", 0, "max upload size in bytes (default 5 MiB)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logger.NewLogger(config.CreateLoggerConfig(verbose))
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(log)

	parser, err := parsers.NewWorkbookParser(config.CreateUploadConfig(maxUploadBytes))
	if err != nil {
		return err
	}

	trail := auditlog.New(config.AuditLogPath(auditLogPath))
	service := engine.NewService(parser, trail, log)

	var m *mailer.Mailer
	mailerCfg := config.CreateMailerConfig()
	if mailerCfg.Host != "" {
		m, err = mailer.New(mailerCfg)
		if err != nil {
			return err
		}
	} else {
		log.Info("SMTP not configured, email notifications disabled")
	}

	srv := server.New(service, m, log, server.Options{MaxUploadBytes: maxUploadBytes})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, serveAddr)
}
