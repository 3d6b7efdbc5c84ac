// Aggregates per-period population statistics from a simulated panel
// for final reporting.

package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds per-period population means of states and choices.
type Summary struct {
	Periods      int
	MeanCons     []float64
	MeanHours    []float64
	MeanAssets   []float64
	MeanCapital  []float64
	MeanChildren []float64
	SpouseShare  []float64
}

// Summarize computes per-period means across individuals.
func (p *Panel) Summarize() *Summary {
	n := len(p.Assets)
	if n == 0 {
		return &Summary{}
	}
	periods := len(p.Assets[0])

	s := &Summary{
		Periods:      periods,
		MeanCons:     make([]float64, periods),
		MeanHours:    make([]float64, periods),
		MeanAssets:   make([]float64, periods),
		MeanCapital:  make([]float64, periods),
		MeanChildren: make([]float64, periods),
		SpouseShare:  make([]float64, periods),
	}

	col := make([]float64, n)
	for t := 0; t < periods; t++ {
		s.MeanCons[t] = stat.Mean(column(col, p.Cons, t), nil)
		s.MeanHours[t] = stat.Mean(column(col, p.Hours, t), nil)
		s.MeanAssets[t] = stat.Mean(column(col, p.Assets, t), nil)
		s.MeanCapital[t] = stat.Mean(column(col, p.Capital, t), nil)
		s.MeanChildren[t] = stat.Mean(intColumn(col, p.Children, t), nil)
		s.SpouseShare[t] = floats.Sum(intColumn(col, p.Spouse, t)) / float64(n)
	}
	return s
}

// column copies series[i][t] over all i into buf and returns it.
func column(buf []float64, series [][]float64, t int) []float64 {
	for i := range series {
		buf[i] = series[i][t]
	}
	return buf
}

func intColumn(buf []float64, series [][]int, t int) []float64 {
	for i := range series {
		buf[i] = float64(series[i][t])
	}
	return buf
}

// Print displays the per-period summary at the end of a run.
func (s *Summary) Print() {
	fmt.Println("=== Simulated Panel Summary ===")
	fmt.Println("period  consumption     hours    assets   capital  children  spouse")
	for t := 0; t < s.Periods; t++ {
		fmt.Printf("%6d  %11.4f  %8.4f  %8.4f  %8.4f  %8.4f  %6.2f\n",
			t, s.MeanCons[t], s.MeanHours[t], s.MeanAssets[t], s.MeanCapital[t],
			s.MeanChildren[t], s.SpouseShare[t])
	}
}
