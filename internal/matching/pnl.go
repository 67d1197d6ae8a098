package matching

import "signalAnalytics/internal/domain"

// DefaultFeePerSide is the trading fee applied per leg, in percentage points.
// A round trip (entry + exit) therefore costs 2 * DefaultFeePerSide.
const DefaultFeePerSide = 0.05

// PnLPercent computes the fee-adjusted percentage PnL for a round trip.
// LONG profits when price rises, SHORT when it falls. The fee model is an
// additive percentage-point subtraction (2 * feePerSide), not a multiplicative
// fee on notional; existing reports depend on that exact behavior.
func PnLPercent(entry, exit float64, dir domain.Direction, feePerSide float64) (float64, error) {
	if entry <= 0 {
		return 0, &domain.InvalidPriceError{Price: entry}
	}

	var pct float64
	if dir == domain.Short {
		pct = ((entry - exit) / entry) * 100
	} else {
		pct = ((exit - entry) / entry) * 100
	}
	return pct - 2*feePerSide, nil
}

// PnLNotional computes the raw price-difference PnL in quote currency units:
// (exit - entry) * quantity for LONG, negated for SHORT. No fee is applied.
func PnLNotional(entry, exit, qty float64, dir domain.Direction) (float64, error) {
	if entry <= 0 {
		return 0, &domain.InvalidPriceError{Price: entry}
	}

	pnl := (exit - entry) * qty
	if dir == domain.Short {
		pnl = -pnl
	}
	return pnl, nil
}

// AbsoluteFromPercent converts a percentage PnL to an absolute amount against
// the entry notional. Some aggregators use this approximation instead of
// PnLNotional; it is exposed as its own operation so callers pick explicitly.
func AbsoluteFromPercent(percent, qty, entry float64) float64 {
	return percent / 100 * qty * entry
}
