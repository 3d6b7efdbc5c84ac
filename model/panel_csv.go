package model

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV writes the panel in long format, one row per individual-period.
func (p *Panel) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating panel file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"individual", "period", "assets", "capital", "children", "spouse", "consumption", "hours"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing panel header: %w", err)
	}

	for i := range p.Assets {
		for t := range p.Assets[i] {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(t),
				formatF(p.Assets[i][t]),
				formatF(p.Capital[i][t]),
				strconv.Itoa(p.Children[i][t]),
				strconv.Itoa(p.Spouse[i][t]),
				formatF(p.Cons[i][t]),
				formatF(p.Hours[i][t]),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing panel row %d/%d: %w", i, t, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing panel file: %w", err)
	}
	return nil
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
