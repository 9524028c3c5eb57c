package tui

import (
	"strings"

	"github.com/ph1ltep/wfgrid/internal/grid"
)

// BuildTSV flattens the grid into tab-separated text suitable for
// pasting into a spreadsheet. Layout follows the on-screen table:
// header lane first, label lane as the first column.
func BuildTSV(cfg *grid.Config, fieldType string) string {
	var b strings.Builder

	header := make([]string, 0, len(cfg.Cols)+1)
	header = append(header, "")
	for _, col := range cfg.Cols {
		header = append(header, col.Label)
	}
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')

	for _, row := range cfg.Rows {
		line := make([]string, 0, len(cfg.Cols)+1)
		line = append(line, row.Label)
		for _, col := range cfg.Cols {
			cd := cfg.CellData(row, col)
			if cd.Value == nil {
				line = append(line, "")
				continue
			}
			line = append(line, FormatValue(fieldType, cd.Value))
		}
		b.WriteString(strings.Join(line, "\t"))
		b.WriteByte('\n')
	}

	return b.String()
}
