package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sydlexius/profilescan/internal/history"
)

func newHistoryCommand(a *app, stdout io.Writer) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.History.Enabled {
				return fmt.Errorf("scan history is disabled")
			}
			db, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			runs, err := history.NewStore(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRuns(stdout, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func printRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCOPE\tSTARTED\tPROFILES\tIMAGES\tTHUMBNAILS\tERRORS\tWARNINGS\tPUBLISHED") //nolint:errcheck
	for _, r := range runs {
		published := "no"
		if r.Published {
			published = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck
			r.ID, r.Scope, humanize.Time(r.StartedAt),
			humanize.Comma(int64(r.Profiles)), humanize.Comma(int64(r.Images)),
			humanize.Comma(int64(r.Thumbnails)), humanize.Comma(int64(r.Errors)),
			humanize.Comma(int64(r.Warnings)), published)
	}
	return tw.Flush()
}
