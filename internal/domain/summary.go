package domain

import "time"

// PerformanceSummary is the aggregate view of a set of closed positions.
// Percentage-PnL figures are the primary marketplace metric; the notional
// total rides along for consumers that report currency amounts.
type PerformanceSummary struct {
	TotalTrades      int     `json:"totalTrades"`
	WinningTrades    int     `json:"winningTrades"`
	LosingTrades     int     `json:"losingTrades"`
	BreakEvenTrades  int     `json:"breakEvenTrades"`
	WinRate          float64 `json:"winRate"`          // percent
	TotalPnL         float64 `json:"totalPnl"`         // sum of per-trade percentage PnL
	AveragePnL       float64 `json:"averagePnl"`       // percent per trade
	TotalNotionalPnL float64 `json:"totalNotionalPnl"` // sum of price-diff * quantity
	ConsistencyScore float64 `json:"consistencyScore"` // percent of profitable ISO weeks
}

// MonthlyBucket aggregates closed positions whose exit falls in one calendar
// month (key "YYYY-MM").
type MonthlyBucket struct {
	Month         string  `json:"month"`
	Trades        int     `json:"trades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRate       float64 `json:"winRate"`
	TotalPnL      float64 `json:"totalPnl"`
	AveragePnL    float64 `json:"averagePnl"`
}

// EquityPoint is one point on the cumulative-PnL curve. TradeNumber 0 is the
// implicit starting point emitted before the first trade.
type EquityPoint struct {
	TradeNumber   int       `json:"tradeNumber"`
	Time          time.Time `json:"time"`
	PnL           float64   `json:"pnl"`
	CumulativePnL float64   `json:"cumulativePnl"`
}

// DistributionBucket counts closed positions whose percentage PnL falls in
// the half-open range (Min, Max].
type DistributionBucket struct {
	Label      string  `json:"label"`
	Min        float64 `json:"-"`
	Max        float64 `json:"-"`
	Count      int     `json:"count"`
	TotalPnL   float64 `json:"totalPnl"`
	AveragePnL float64 `json:"averagePnl"`
}
