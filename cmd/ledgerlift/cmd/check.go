package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"golang-ledger-validation-service/cmd/ledgerlift/config"
	"golang-ledger-validation-service/pkg/logger"

	"golang-ledger-validation-service/internal/engine"
	"golang-ledger-validation-service/internal/models"
	"golang-ledger-validation-service/internal/parsers"
	"golang-ledger-validation-service/internal/rules"
)

// Flags for the check command
var (
	checkQuick  bool
	checkJSON   bool
	checkStrict bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file> [file...]",
	Short: "Validate workbook files offline",
	Long: `Check runs the full validation pass against one or more CSV or Excel
files without starting the HTTP server: per-category rules, cross-sheet
reconciliation and the formula audit.

With --quick only the category-agnostic checks run (missing values,
duplicates, invalid dates, Excel error codes).

Examples:
  ledgerlift check books.xlsx
  ledgerlift check journal.csv trial_balance.csv
  ledgerlift check books.xlsx --quick
  ledgerlift check books.xlsx --json
  ledgerlift check books.xlsx --strict`,

	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkQuick, "quick", false, "run only the category-agnostic checks")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit findings as JSON")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when any finding is reported")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log, err := logger.NewLogger(config.CreateLoggerConfig(verbose))
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(log)

	parser, err := parsers.NewWorkbookParser(config.CreateUploadConfig(0))
	if err != nil {
		return err
	}
	service := engine.NewService(parser, nil, log)

	total := 0
	output := make(map[string]map[string][]models.Finding, len(args))

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		findings, err := checkFile(service, raw, filepath.Base(path))
		if err != nil {
			return err
		}
		output[path] = findings
		for _, sheetFindings := range findings {
			total += len(sheetFindings)
		}
	}

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return err
		}
	} else {
		printFindings(output)
	}

	if checkStrict && total > 0 {
		return fmt.Errorf("%d findings reported", total)
	}
	return nil
}

// checkFile loads one workbook into a throwaway session and collects its
// findings.
func checkFile(service *engine.Service, raw []byte, filename string) (map[string][]models.Finding, error) {
	result, err := service.SubmitWorkbook(engine.DefaultSession, raw, filename)
	if err != nil {
		return nil, err
	}

	if !checkQuick {
		return result.Findings, nil
	}

	findings := make(map[string][]models.Finding, len(result.Sheets))
	for _, name := range result.Sheets {
		sheetFindings, err := service.QuickScan(engine.DefaultSession, name, rules.QuickScanOptions{})
		if err != nil {
			return nil, err
		}
		findings[name] = sheetFindings
	}
	return findings, nil
}

func printFindings(output map[string]map[string][]models.Finding) {
	files := make([]string, 0, len(output))
	for path := range output {
		files = append(files, path)
	}
	sort.Strings(files)

	for _, path := range files {
		fmt.Printf("%s\n", path)

		sheets := make([]string, 0, len(output[path]))
		for name := range output[path] {
			sheets = append(sheets, name)
		}
		sort.Strings(sheets)

		clean := true
		for _, name := range sheets {
			findings := output[path][name]
			if len(findings) == 0 {
				continue
			}
			clean = false
			fmt.Printf("  %s:\n", name)
			for _, f := range findings {
				if f.Row != nil {
					fmt.Printf("    row %d: %s\n", *f.Row, f.Issue)
				} else {
					fmt.Printf("    %s\n", f.Issue)
				}
			}
		}
		if clean {
			fmt.Println("  no findings")
		}
	}
}
