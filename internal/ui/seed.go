package ui

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/series"
)

func (a *App) seedCmd() *cobra.Command {
	var contracts int
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the scenario with sample contracts",
		Long: `Replace the scenario document with generated sample contracts.

Useful for trying the grid without real data. Refuses to overwrite a
non-empty scenario unless --force is given.

Example:
  wfgrid seed --contracts 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}

			if len(st.Document()) > 0 && !force {
				return fmt.Errorf("scenario %q is not empty, use --force to overwrite", st.Scenario())
			}

			years := series.YearRange{Min: a.config.Table.YearRange.Min, Max: a.config.Table.YearRange.Max}.Years()
			doc := sampleDocument(a.config.PathSegments(), a.config.Table.Fields, years, contracts)
			if err := st.Replace(cmd.Context(), doc); err != nil {
				return fmt.Errorf("writing sample data: %w", err)
			}

			fmt.Printf("Seeded scenario %q with %d contracts\n", st.Scenario(), contracts)
			return nil
		},
	}

	cmd.Flags().IntVar(&contracts, "contracts", 3, "Number of sample contracts")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite a non-empty scenario")
	return cmd
}

// sampleDocument builds a scenario document holding n generated
// contracts under the configured table path.
func sampleDocument(path []string, fields []config.FieldOption, years []int, n int) map[string]any {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, sampleContract(i, fields, years))
	}

	doc := map[string]any{}
	cursor := doc
	for _, seg := range path[:len(path)-1] {
		next := map[string]any{}
		cursor[seg] = next
		cursor = next
	}
	cursor[path[len(path)-1]] = items
	return doc
}

func sampleContract(i int, fields []config.FieldOption, years []int) map[string]any {
	names := make([]string, 0, len(fields))
	e := series.Entity{
		Name:   "Contract " + strconv.Itoa(i+1),
		Series: map[string][]series.Point{},
		Attrs:  map[string]any{},
	}
	for fi, f := range fields {
		names = append(names, f.Value)
		base := float64((i + 1) * 10)
		pts := make([]series.Point, 0, len(years))
		for yi, y := range years {
			// Leave a gap so hide-empty and fill-from-default have
			// something to work with.
			if (yi+i)%5 == 4 {
				continue
			}
			pts = append(pts, series.Point{
				Year:  y,
				Value: series.Value(base + float64(fi) + float64(yi)),
			})
		}
		e.Series[f.Value] = pts
		if f.DefaultValueField != "" {
			e.Attrs[f.DefaultValueField] = base
		}
	}
	return series.ToDocument(e, names)
}
