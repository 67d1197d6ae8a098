package analytics

import (
	"math"
	"sort"

	"signalAnalytics/internal/domain"
)

// BucketByMonth groups closed positions by the calendar month of their exit
// ("YYYY-MM") and aggregates per-bucket trade stats with the same formulas as
// the overall summary. Buckets come back in chronological order.
func BucketByMonth(closed []domain.ClosedPosition) []domain.MonthlyBucket {
	byMonth := make(map[string]*domain.MonthlyBucket)
	for _, pos := range closed {
		key := pos.ExitTime.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &domain.MonthlyBucket{Month: key}
			byMonth[key] = b
		}
		b.Trades++
		if pos.PnLPercent > 0 {
			b.WinningTrades++
		} else if pos.PnLPercent < 0 {
			b.LosingTrades++
		}
		b.TotalPnL += pos.PnLPercent
	}

	buckets := make([]domain.MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		if b.Trades > 0 {
			b.WinRate = float64(b.WinningTrades) / float64(b.Trades) * 100
			b.AveragePnL = b.TotalPnL / float64(b.Trades)
		}
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// Distribution re-buckets closed positions into fixed percentage-PnL ranges
// for histogram views. Range membership is half-open: min < pnl <= max.
func Distribution(closed []domain.ClosedPosition) []domain.DistributionBucket {
	buckets := []domain.DistributionBucket{
		{Label: "Large Loss", Min: math.Inf(-1), Max: -50},
		{Label: "Medium Loss", Min: -50, Max: -20},
		{Label: "Small Loss", Min: -20, Max: 0},
		{Label: "Small Win", Min: 0, Max: 20},
		{Label: "Medium Win", Min: 20, Max: 50},
		{Label: "Large Win", Min: 50, Max: math.Inf(1)},
	}

	for _, pos := range closed {
		for i := range buckets {
			if pos.PnLPercent > buckets[i].Min && pos.PnLPercent <= buckets[i].Max {
				buckets[i].Count++
				buckets[i].TotalPnL += pos.PnLPercent
				break
			}
		}
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].AveragePnL = buckets[i].TotalPnL / float64(buckets[i].Count)
		}
	}
	return buckets
}
