package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

var (
	ingestDryRun  bool
	ingestSources []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the full ingestion pipeline over the configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		adapters, err := buildAdapters(ingestSources)
		if err != nil {
			return err
		}

		var result *model.RunResult
		if ingestDryRun {
			result = e.Pipeline.DryRun(ctx, adapters)
		} else {
			result = e.Pipeline.Run(ctx, adapters)
		}

		if err := e.Store.SaveRun(ctx, result); err != nil {
			zap.L().Warn("failed to save run history", zap.Error(err))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "run the pipeline without persisting records")
	ingestCmd.Flags().StringSliceVar(&ingestSources, "source", nil, "limit the run to the named sources (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}
