package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ph1ltep/wfgrid/internal/export"
	"github.com/ph1ltep/wfgrid/internal/grid"
)

func (a *App) exportCmd() *cobra.Command {
	var field string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the contract table to xlsx",
		Long: `Write the contract table to an xlsx workbook.

The workbook mirrors the on-screen layout: one row per contract, one
column per year, summary and totals lanes included.

Example:
  wfgrid export -o fees.xlsx`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if field != "" {
				if err := sess.SwitchField(field, false); err != nil {
					return fmt.Errorf("switching field: %w", err)
				}
			}

			gridCfg := buildGrid(sess, a.config, grid.Horizontal)
			if err := export.WriteXLSX(output, gridCfg, sess.Field()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Series field to export")
	cmd.Flags().StringVarP(&output, "output", "o", "wfgrid.xlsx", "Output file path")
	return cmd
}
