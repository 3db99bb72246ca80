package model

import "sort"

// SelectByMedianImportance returns the indices of features whose
// importance is at or above the median importance, sorted ascending.
// Features strictly below the median are dropped. The selected index
// set is part of the model artifact: the server must slice incoming
// vectors with exactly this set.
func SelectByMedianImportance(importances []float64) []int {
	if len(importances) == 0 {
		return nil
	}

	sorted := append([]float64(nil), importances...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	var median float64
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	var selected []int
	for i, v := range importances {
		if v >= median {
			selected = append(selected, i)
		}
	}
	return selected
}

// ApplySelection projects each row onto the selected feature indices.
func ApplySelection(rows [][]float64, selected []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		projected := make([]float64, len(selected))
		for j, idx := range selected {
			projected[j] = row[idx]
		}
		out[i] = projected
	}
	return out
}
