package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/DeafMist/dept-site/backend/internal/contentparser"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		workers int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check every content file against its schema",
		Long: `Reads every collection file and Markdown post, validates each record
and reports duplicate ids. Exits non-zero when any problem is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dir
			if len(args) == 1 {
				dir = args[0]
			}
			report, err := contentparser.CheckDirectory(cmd.Context(), dir, workers)
			if err != nil {
				return err
			}
			if asJSON {
				if err := printJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report)
			}
			if n := report.Problems(); n > 0 {
				return fmt.Errorf("%d problem(s) found", n)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "files checked in parallel")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report contentparser.Report) {
	for _, f := range report.Files {
		switch {
		case f.Err != "":
			cmd.Printf("FAIL %s: %s\n", f.Path, f.Err)
		case len(f.Invalid) > 0:
			cmd.Printf("FAIL %s: %d of %d records invalid\n", f.Path, len(f.Invalid), f.Records)
			for _, rec := range f.Invalid {
				cmd.Printf("      [%d] %s: %s\n", rec.Index, rec.ID, rec.Error)
			}
		default:
			cmd.Printf("ok   %s (%d records)\n", f.Path, f.Records)
		}
	}
	for _, kind := range slices.Sorted(maps.Keys(report.Duplicates)) {
		cmd.Printf("DUP  %s: %v\n", kind, report.Duplicates[kind])
	}
	if report.OK() {
		cmd.Printf("\n%d files checked, no problems\n", len(report.Files))
	}
}
