package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wateryy/internal/audit"
)

var (
	exportOut    string
	exportTables []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored tables to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, logger, store, err := setup(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		exporter, ok := store.(audit.TableExporter)
		if !ok {
			return fmt.Errorf("store %T does not support export", store)
		}

		out := exportOut
		if out == "" {
			out = audit.GenerateFilename(time.Now())
		}

		svc := audit.NewService(exporter, nil, logger)
		if err := svc.ExportToFile(ctx, out, exportTables...); err != nil {
			return err
		}
		logger.Info().Str("path", out).Msg("Export written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default wateryy_export_<date>.xlsx)")
	exportCmd.Flags().StringSliceVarP(&exportTables, "tables", "t", nil, "tables to export (default all)")
}
