package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"survey-integrity/core/schema"

	"github.com/spf13/cobra"
)

var formatFlag string

// inspectCmd prints the fields declared by a dictionary file.
var inspectCmd = &cobra.Command{
	Use:   "inspect <dictionary>",
	Short: "Parse a data dictionary and print its fields",
	Long: `Parses a Stata dictionary (.dct), a layout file or a YAML schema and prints
every field with its 0-based byte range and type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := schema.DetectFormat(args[0])
		if formatFlag != "" {
			f, err := schema.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if f != schema.FormatAuto {
				format = f
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		sch, err := schema.Parse(f, format)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		printSchema(cmd.OutOrStdout(), sch)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&formatFlag, "format", "", "Dictionary format (stata, layout, yaml); detected from the extension by default")
}

func printSchema(w io.Writer, sch *schema.Schema) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTART\tEND\tTYPE\tLABEL")
	for _, f := range sch.Fields() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", f.Name, f.Start, f.End(), f.Type, f.Label)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d fields, record width %d\n", sch.Len(), sch.Width())
}
