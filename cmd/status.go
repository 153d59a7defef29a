package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored date ranges and the last import run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tFIRST\tLAST\tSOURCE FROM")
		for _, k := range model.RecordKinds {
			first, last, ok, err := st.DateRange(ctx, k)
			if err != nil {
				return err
			}
			lo, hi := "-", "-"
			if ok {
				lo, hi = first.Format(model.DateLayout), last.Format(model.DateLayout)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, lo, hi, k.MinDate().Format(model.DateLayout))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		last, err := st.LastRun(ctx)
		if err != nil {
			return err
		}
		if last == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "\nno import runs recorded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nlast run started %s\n%s",
			last.StartedAt.Format("2006-01-02 15:04:05"), last.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
