package analytics

import (
	"sort"

	"signalAnalytics/internal/domain"
)

// BuildEquityCurve produces cumulative-PnL points over the trade sequence,
// one per closed position in ascending exit-time order, preceded by an
// implicit zero point anchored at the first trade's entry time. Empty input
// yields an empty curve.
func BuildEquityCurve(closed []domain.ClosedPosition) []domain.EquityPoint {
	if len(closed) == 0 {
		return []domain.EquityPoint{}
	}

	ordered := make([]domain.ClosedPosition, len(closed))
	copy(ordered, closed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExitTime.Before(ordered[j].ExitTime)
	})

	curve := make([]domain.EquityPoint, 0, len(ordered)+1)
	curve = append(curve, domain.EquityPoint{
		TradeNumber:   0,
		Time:          ordered[0].EntryTime,
		PnL:           0,
		CumulativePnL: 0,
	})

	var cumulative float64
	for i, pos := range ordered {
		cumulative += pos.PnLPercent
		curve = append(curve, domain.EquityPoint{
			TradeNumber:   i + 1,
			Time:          pos.ExitTime,
			PnL:           pos.PnLPercent,
			CumulativePnL: cumulative,
		})
	}
	return curve
}
