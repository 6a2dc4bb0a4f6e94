package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"survey-integrity/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the integrity command
	sourceFlag   string
	maxRowsFlag  int
	jsonFlag     string
	uploadFlag   bool
	saveFlag     bool
	strictFlag   bool
	failFastFlag bool
	showFlag     int

	fixFlag bool
)

// integrityCmd runs the referential integrity check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check respondent pregnancy counts against the pregnancy file",
	Long: `Loads the respondent and pregnancy files, groups pregnancies by case id and
checks that every respondent's reported pregnancy count matches.

Examples:
  # Full check
  integrity

  # First 500 respondents against every pregnancy, stop at the first mismatch
  integrity --max-rows 500 --fail-fast

  # Save the run, upload the report and fail when inconsistent
  integrity --save --upload --strict`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, needs{storage: uploadFlag, history: saveFlag, source: sourceFlag})
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.service.Run(ctx, integrity.Request{
			MaxRows:  maxRowsFlag,
			Save:     saveFlag,
			FailFast: failFastFlag,
		})
		if err != nil {
			return fmt.Errorf("integrity check failed: %w", err)
		}

		if jsonFlag != "" {
			if err := writeReportFile(jsonFlag, report); err != nil {
				return err
			}
			rt.logger.Info("JSON report saved", zap.String("file", jsonFlag))
		}

		if uploadFlag {
			name, err := rt.service.UploadReport(ctx, report)
			if err != nil {
				return err
			}
			rt.logger.Info("Report uploaded", zap.String("object", name))
		}

		printReport(cmd.OutOrStdout(), report, showFlag)

		if strictFlag {
			return report.Err()
		}
		return nil
	},
}

// sourcesCmd checks that the survey files exist.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Check that the dictionaries and data files exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), needs{})
		if err != nil {
			return err
		}
		defer rt.close()

		rt.logger.Info("Checking survey files...")
		missing, err := rt.service.CheckSources(cmd.Context())
		if err != nil {
			return fmt.Errorf("sources check failed: %w", err)
		}
		if len(missing) > 0 {
			rt.logger.Warn("Missing survey files detected", zap.Strings("missing", missing))
			return fmt.Errorf("%d survey files missing", len(missing))
		}
		rt.logger.Info("Survey files are present.")
		return nil
	},
}

// schemaCmd parses both dictionaries and checks the join fields.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check that both dictionaries declare the key and count fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), needs{})
		if err != nil {
			return err
		}
		defer rt.close()

		reports, err := rt.service.CheckSchemas(cmd.Context())
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}

		failed := 0
		for _, r := range reports {
			if r.Status == "ok" {
				rt.logger.Info("Dictionary matches", zap.String("role", r.Role), zap.String("source", r.Source), zap.Int("fields", r.Fields))
				continue
			}
			failed++
			rt.logger.Warn("Dictionary mismatch",
				zap.String("role", r.Role),
				zap.Strings("missing", r.MissingFields),
				zap.Strings("mismatches", r.TypeMismatches))
		}
		if failed > 0 {
			return fmt.Errorf("%d dictionaries failed the check", failed)
		}
		return nil
	},
}

// structureCmd checks and fixes the bucket folders.
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the bucket folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, needs{storage: true})
		if err != nil {
			return err
		}
		defer rt.close()

		rt.logger.Info("Checking folder structure...")
		missing, err := rt.service.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}
		if len(missing) == 0 {
			rt.logger.Info("Structure is intact.")
			return nil
		}

		rt.logger.Warn("Missing folders detected", zap.Strings("missing", missing))
		if !fixFlag {
			rt.logger.Info("Run with --fix to create missing folders.")
			return nil
		}

		rt.logger.Info("Fixing missing folders...")
		if err := rt.service.FixStructure(ctx, missing); err != nil {
			return fmt.Errorf("failed to fix structure: %w", err)
		}
		rt.logger.Info("Structure fixed successfully.")
		return nil
	},
}

// historyCmd checks the run history tables.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Check the run history tables against the expected columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), needs{history: true})
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.service.CheckHistory()
		if err != nil {
			return fmt.Errorf("history check failed: %w", err)
		}
		if report.Matched {
			rt.logger.Info("History tables match the expected definition.", zap.String("driver", report.Driver))
			return nil
		}

		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				rt.logger.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				rt.logger.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			rt.logger.Error("Inspection Error", zap.String("error", e))
		}
		return fmt.Errorf("history tables do not match")
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(sourcesCmd, schemaCmd, structureCmd, historyCmd)

	f := integrityCmd.Flags()
	f.StringVar(&sourceFlag, "source", "", "Survey source (file or storage), overrides SURVEY_SOURCE")
	f.IntVar(&maxRowsFlag, "max-rows", 0, "Check at most N respondents; the pregnancy file is always read in full (0 reads everything)")
	f.StringVar(&jsonFlag, "json", "", "Write the full report as JSON to this file")
	f.BoolVar(&uploadFlag, "upload", false, "Upload the report to the storage bucket")
	f.BoolVar(&saveFlag, "save", false, "Save the run to the history database")
	f.BoolVar(&strictFlag, "strict", false, "Exit with an error when the data is inconsistent")
	f.BoolVar(&failFastFlag, "fail-fast", false, "Stop at the first mismatch")
	f.IntVar(&showFlag, "show", 20, "Print at most N violations")

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func writeReportFile(name string, report *integrity.Report) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return f.Close()
}

// printReport writes the human readable summary.
func printReport(w io.Writer, report *integrity.Report, show int) {
	fmt.Fprintln(w, "\n=== Survey Integrity Report ===")
	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "Respondents: %d\n", report.Respondents)
	fmt.Fprintf(w, "Pregnancies: %d\n", report.Items)
	fmt.Fprintf(w, "Case IDs With Pregnancies: %d\n", report.Groups)
	if report.MaxRows > 0 {
		fmt.Fprintf(w, "Row Cap: %d\n", report.MaxRows)
	}
	fmt.Fprintf(w, "Violations: %d\n", len(report.Verdict.Violations))
	fmt.Fprintf(w, "Execution Time: %dms\n", report.DurationMS)

	if len(report.CountDistribution) > 0 {
		fmt.Fprintf(w, "\n%s distribution:\n", report.CountField)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, vc := range report.CountDistribution {
			fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
		}
		tw.Flush()
	}

	if n := len(report.Verdict.Violations); n > 0 {
		fmt.Fprintln(w, "\nViolations:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\tEXPECTED\tACTUAL\n", report.KeyField)
		for i, v := range report.Verdict.Violations {
			if show >= 0 && i >= show {
				fmt.Fprintf(tw, "  ... %d more\t\t\n", n-i)
				break
			}
			fmt.Fprintf(tw, "  %s\t%d\t%d\n", v.Key, v.Expected, v.Actual)
		}
		tw.Flush()
	}

	for _, failure := range report.ExpectationFailures {
		fmt.Fprintf(w, "Expectation failed: %s\n", failure)
	}

	if report.Consistent() {
		fmt.Fprintln(w, "\nResult: CONSISTENT")
	} else {
		fmt.Fprintln(w, "\nResult: INCONSISTENT")
	}
}
