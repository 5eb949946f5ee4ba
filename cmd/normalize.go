package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <source>",
	Short: "Extract and normalize one source without persisting, for adapter testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		adapters, err := buildAdapters(args[:1])
		if err != nil {
			return err
		}
		if len(adapters) != 1 {
			return eris.Errorf("source %q not found in configuration", args[0])
		}

		records, errs := e.Pipeline.NormalizeOnly(ctx, adapters[0])

		out := struct {
			Records []model.Record      `json:"records"`
			Errors  []model.IngestError `json:"errors,omitempty"`
		}{Records: records, Errors: errs}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
