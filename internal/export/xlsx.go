// Package export writes a built grid to an xlsx workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
)

// number formats for the supported field types
const (
	formatCurrency   = `$#,##0.00`
	formatPercentage = `0.00"%"`
)

// WriteXLSX writes the grid to path as one worksheet. Layout follows
// the on-screen table: header lane in row 1, label lane in column A,
// aggregate lanes styled bold on a tinted background.
func WriteXLSX(path string, cfg *grid.Config, field config.FieldOption) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	aggStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8EAF0"}},
		CustomNumFmt: numberFormat(field.Type),
	})
	if err != nil {
		return fmt.Errorf("creating aggregate style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: numberFormat(field.Type)})
	if err != nil {
		return fmt.Errorf("creating value style: %w", err)
	}

	// Header lane
	corner, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetCellValue(sheet, corner, field.Label); err != nil {
		return err
	}
	for c, col := range cfg.Cols {
		cell, _ := excelize.CoordinatesToCellName(c+2, 1)
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	// Body plus aggregate lanes
	for r, row := range cfg.Rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(sheet, labelCell, row.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, headerStyle); err != nil {
			return err
		}

		for c, col := range cfg.Cols {
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			cd := cfg.CellData(row, col)
			if cd.Value != nil {
				if err := f.SetCellValue(sheet, cell, *cd.Value); err != nil {
					return err
				}
			}

			style := valueStyle
			if row.Aggregate || col.Aggregate {
				style = aggStyle
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// numberFormat maps a field type to its cell number format.
func numberFormat(fieldType string) *string {
	var fmtStr string
	switch fieldType {
	case config.FieldCurrency:
		fmtStr = formatCurrency
	case config.FieldPercentage:
		fmtStr = formatPercentage
	default:
		return nil
	}
	return &fmtStr
}
