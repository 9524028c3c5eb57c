package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ph1ltep/wfgrid/internal/config"
)

// FormatValue renders a cell value for display according to the field
// type. Nil values render as a dash so blank and zero stay
// distinguishable.
func FormatValue(fieldType string, v *float64) string {
	if v == nil {
		return "-"
	}
	switch fieldType {
	case config.FieldCurrency:
		return "$" + trimFloat(*v)
	case config.FieldPercentage:
		return trimFloat(*v) + "%"
	default:
		return trimFloat(*v)
	}
}

// ParseValue converts user input into a cell value. Currency and
// percentage decorations are accepted and stripped; an empty string
// means blank the cell (nil).
func ParseValue(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "$")
	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", text)
	}
	return &v, nil
}

// EditText returns the raw text seeded into the cell editor.
func EditText(v *float64) string {
	if v == nil {
		return ""
	}
	return trimFloat(*v)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
