// internal/analytics/strategy.go
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"franchise-pos/internal/models"
)

const (
	topSellerShare    = 0.10
	weekendHeavyShare = 0.50
	morningHeavyShare = 0.50
	underperformRatio = 0.70
	morningCutoffHour = 12
)

var strategyPriority = []models.Strategy{
	models.StrategyTrend,
	models.StrategyTopSeller,
	models.StrategyWeekendHeavy,
	models.StrategyMorningHeavy,
	models.StrategyUnderperformer,
}

type StrategyOptions struct {
	// Window is the number of trailing days the trend strategy fits over.
	Window int
	// Location is used for weekday and time-of-day bucketing. Defaults to UTC.
	Location *time.Location
}

type itemStats struct {
	total   int
	weekend int
	morning int
	daily   []models.DailyQuantity
}

// Strategies runs the heuristic recommendation strategies over raw sale lines.
// Each item keeps only its highest-priority recommendation; the result is
// ordered by confidence, highest first, then by item name.
func Strategies(lines []models.SaleLine, opts StrategyOptions) []models.Recommendation {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	stats := make(map[string]*itemStats)
	grand := 0
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		s, ok := stats[l.ItemName]
		if !ok {
			s = &itemStats{}
			stats[l.ItemName] = s
		}
		at := l.SoldAt.In(loc)
		s.total += l.Qty
		if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
			s.weekend += l.Qty
		}
		if at.Hour() < morningCutoffHour {
			s.morning += l.Qty
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		s.daily = append(s.daily, models.DailyQuantity{Day: day, Qty: l.Qty})
		grand += l.Qty
	}
	if grand == 0 {
		return []models.Recommendation{}
	}

	candidates := map[models.Strategy][]models.Recommendation{
		models.StrategyTrend:          trendStrategy(stats, opts.Window),
		models.StrategyTopSeller:      topSellerStrategy(stats, grand),
		models.StrategyWeekendHeavy:   shareStrategy(stats, models.StrategyWeekendHeavy, weekendHeavyShare, func(s *itemStats) int { return s.weekend }),
		models.StrategyMorningHeavy:   shareStrategy(stats, models.StrategyMorningHeavy, morningHeavyShare, func(s *itemStats) int { return s.morning }),
		models.StrategyUnderperformer: underperformerStrategy(stats, grand),
	}

	seen := make(map[string]bool)
	out := make([]models.Recommendation, 0, len(stats))
	for _, strategy := range strategyPriority {
		recs := candidates[strategy]
		sort.Slice(recs, func(i, j int) bool { return recs[i].ItemName < recs[j].ItemName })
		for _, rec := range recs {
			if seen[rec.ItemName] {
				continue
			}
			seen[rec.ItemName] = true
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out
}

func trendStrategy(stats map[string]*itemStats, window int) []models.Recommendation {
	var recs []models.Recommendation
	for name, s := range stats {
		slope, mean, ok := fitSlope(lastWindow(s.daily, window))
		if !ok || slope <= 0 || mean <= 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			ItemName:   name,
			Strategy:   models.StrategyTrend,
			Confidence: math.Min(1, slope/mean),
			Message:    fmt.Sprintf("%s is %s", name, msgTrendingUp),
		})
	}
	return recs
}

func topSellerStrategy(stats map[string]*itemStats, grand int) []models.Recommendation {
	var recs []models.Recommendation
	for name, s := range stats {
		share := float64(s.total) / float64(grand)
		if share < topSellerShare {
			continue
		}
		recs = append(recs, models.Recommendation{
			ItemName:   name,
			Strategy:   models.StrategyTopSeller,
			Confidence: share,
			Message:    fmt.Sprintf("%s makes up %.0f%% of units sold, keep it stocked", name, share*100),
		})
	}
	return recs
}

func shareStrategy(stats map[string]*itemStats, strategy models.Strategy, threshold float64, part func(*itemStats) int) []models.Recommendation {
	var recs []models.Recommendation
	for name, s := range stats {
		share := float64(part(s)) / float64(s.total)
		if share < threshold {
			continue
		}
		msg := fmt.Sprintf("%s sells mostly on weekends, stock up before Saturday", name)
		if strategy == models.StrategyMorningHeavy {
			msg = fmt.Sprintf("%s sells mostly before noon, prepare it early", name)
		}
		recs = append(recs, models.Recommendation{
			ItemName:   name,
			Strategy:   strategy,
			Confidence: share,
			Message:    msg,
		})
	}
	return recs
}

func underperformerStrategy(stats map[string]*itemStats, grand int) []models.Recommendation {
	avg := float64(grand) / float64(len(stats))
	var recs []models.Recommendation
	for name, s := range stats {
		ratio := float64(s.total) / avg
		if ratio >= underperformRatio {
			continue
		}
		recs = append(recs, models.Recommendation{
			ItemName:   name,
			Strategy:   models.StrategyUnderperformer,
			Confidence: 1 - ratio,
			Message:    fmt.Sprintf("%s sells below 70%% of the average item, consider a promotion or removal", name),
		})
	}
	return recs
}
