package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"survey-integrity/feature/integrity/store"

	"github.com/spf13/cobra"
)

var runsLimitFlag int

// runsCmd lists saved runs or shows one run.
var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List saved integrity runs, or show one run with its violations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, needs{history: true})
		if err != nil {
			return err
		}
		defer rt.close()

		if len(args) == 1 {
			run, err := rt.service.RunByID(ctx, args[0])
			if err != nil {
				return err
			}
			printRun(cmd.OutOrStdout(), run)
			return nil
		}

		runs, err := rt.service.Runs(ctx, runsLimitFlag)
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Maximum number of runs to list")
}

func printRuns(w io.Writer, runs []store.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSOURCE\tRESPONDENTS\tITEMS\tVIOLATIONS\tCONSISTENT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%t\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Source, r.Respondents, r.Items, r.ViolationCount, r.Consistent)
	}
	tw.Flush()
}

func printRun(w io.Writer, run *store.Run) {
	printRuns(w, []store.Run{*run})
	if len(run.Violations) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\tEXPECTED\tACTUAL\n", run.KeyField)
	for _, v := range run.Violations {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", v.Position, v.Key, v.Expected, v.Actual)
	}
	tw.Flush()
}
