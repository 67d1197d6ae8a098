// Package analytics folds closed and open positions into the summary
// statistics the marketplace ranks providers by. All functions are pure:
// same input, same output, no hidden state.
package analytics

import (
	"fmt"

	"signalAnalytics/internal/domain"
)

// Weights blend the composite ranking score. They are a documented policy
// constant, injectable so callers can override policy without touching the
// engine.
type Weights struct {
	WinRate     float64
	PnL         float64
	Subscribers float64
	Consistency float64
}

// DefaultWeights is the marketplace ranking policy:
// winRate 40% + normalized PnL 30% + subscribers 20% + consistency 10%.
var DefaultWeights = Weights{
	WinRate:     0.4,
	PnL:         0.3,
	Subscribers: 0.2,
	Consistency: 0.1,
}

// Aggregate computes the performance summary for a set of closed positions.
// Empty input is a legitimate state and yields a zero-valued summary, never
// an error. Wins are trades with positive percentage PnL, losses negative;
// exact zero counts as break-even.
func Aggregate(closed []domain.ClosedPosition) domain.PerformanceSummary {
	var s domain.PerformanceSummary

	for _, pos := range closed {
		s.TotalTrades++
		switch {
		case pos.PnLPercent > 0:
			s.WinningTrades++
		case pos.PnLPercent < 0:
			s.LosingTrades++
		default:
			s.BreakEvenTrades++
		}
		s.TotalPnL += pos.PnLPercent
		s.TotalNotionalPnL += pos.PnLNotional
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
		s.AveragePnL = s.TotalPnL / float64(s.TotalTrades)
	}
	s.ConsistencyScore = Consistency(closed)
	return s
}

// Consistency returns the percentage of ISO-8601 weeks (keyed by exit time)
// whose summed PnL was positive. Zero positions means zero score.
func Consistency(closed []domain.ClosedPosition) float64 {
	if len(closed) == 0 {
		return 0
	}

	weekly := make(map[string]float64)
	for _, pos := range closed {
		year, week := pos.ExitTime.ISOWeek()
		weekly[fmt.Sprintf("%d-W%02d", year, week)] += pos.PnLPercent
	}

	profitable := 0
	for _, pnl := range weekly {
		if pnl > 0 {
			profitable++
		}
	}
	return float64(profitable) / float64(len(weekly)) * 100
}

// CompositeScore blends a summary with an externally supplied subscriber
// count into the ranking score. PnL is normalized as clamp(totalPnL/100,
// 0, 100); subscribers as min(count*2, 100), capping the benefit at 50 subs.
func CompositeScore(s domain.PerformanceSummary, subscriberCount int, w Weights) float64 {
	normalizedPnL := clamp(s.TotalPnL/100, 0, 100)
	normalizedSubs := float64(subscriberCount) * 2
	if normalizedSubs > 100 {
		normalizedSubs = 100
	}

	return s.WinRate*w.WinRate +
		normalizedPnL*w.PnL +
		normalizedSubs*w.Subscribers +
		s.ConsistencyScore*w.Consistency
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
