package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured ingestion sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tTIER\tCADENCE\tAUTH")
		for _, sc := range cfg.Sources {
			auth := ""
			if sc.RequiresAuth {
				auth = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", sc.Name, sc.Kind, sc.Tier, sc.Cadence, auth)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
