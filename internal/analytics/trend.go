// internal/analytics/trend.go
package analytics

import (
	"sort"

	"franchise-pos/internal/models"
)

const (
	msgTrendingUp      = "trending up, restock"
	msgFlatOrDeclining = "flat or declining, reallocate"
)

// Estimate fits an ordinary least squares line of quantity against day index
// over each item's last window days and classifies the slope. Items with
// fewer than two days are left out. The result is sorted by item name.
func Estimate(series map[string][]models.DailyQuantity, window int) []models.Trend {
	trends := make([]models.Trend, 0, len(series))
	for name, days := range series {
		ys := lastWindow(days, window)
		slope, _, ok := fitSlope(ys)
		if !ok {
			continue
		}

		t := models.Trend{
			ItemName:  name,
			Slope:     slope,
			Points:    len(ys),
			Direction: models.FlatOrDeclining,
			Message:   msgFlatOrDeclining,
		}
		if slope > 0 {
			t.Direction = models.TrendingUp
			t.Message = msgTrendingUp
		}
		trends = append(trends, t)
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].ItemName < trends[j].ItemName })
	return trends
}

// lastWindow orders days by date, merges entries for the same calendar day
// and returns the quantities of the last window days.
func lastWindow(days []models.DailyQuantity, window int) []float64 {
	byDay := make(map[string]int, len(days))
	keys := make([]string, 0, len(days))
	for _, d := range days {
		k := d.Day.Format("2006-01-02")
		if _, seen := byDay[k]; !seen {
			keys = append(keys, k)
		}
		byDay[k] += d.Qty
	}
	sort.Strings(keys)

	if window > 0 && len(keys) > window {
		keys = keys[len(keys)-window:]
	}

	ys := make([]float64, len(keys))
	for i, k := range keys {
		ys[i] = float64(byDay[k])
	}
	return ys
}

// fitSlope returns the OLS slope of ys over x = 0..n-1 and the mean of ys.
// ok is false when there are fewer than two points or x has no variance.
func fitSlope(ys []float64) (slope, mean float64, ok bool) {
	n := len(ys)
	if n < 2 {
		return 0, 0, false
	}

	var sumX, sumY float64
	for i, y := range ys {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / float64(n)
	mean = sumY / float64(n)

	var cov, varX float64
	for i, y := range ys {
		dx := float64(i) - meanX
		cov += dx * (y - mean)
		varX += dx * dx
	}
	if varX == 0 {
		return 0, mean, false
	}
	return cov / varX, mean, true
}
