package domain

import "time"

// OpenLot is a quantity opened at a specific price and time, still awaiting
// closure. Lots queue up per partition in strict arrival order; the matcher
// shrinks a lot's Quantity as partial closes consume it.
type OpenLot struct {
	Symbol     string    `json:"symbol"`
	Strategy   string    `json:"strategy"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entryPrice"`
	Quantity   float64   `json:"quantity"`
	EntryTime  time.Time `json:"entryTime"`
}

// ClosedPosition is the immutable result of matching closing quantity against
// a single open lot. One exit event may produce several of these (one per lot
// it consumed), and one lot may appear in several (one per exit that nibbled
// at it).
type ClosedPosition struct {
	Symbol     string    `json:"symbol"`
	Strategy   string    `json:"strategy"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	Quantity   float64   `json:"quantity"`
	EntryTime  time.Time `json:"entryTime"`
	ExitTime   time.Time `json:"exitTime"`
	// PnLPercent is fee-adjusted percentage PnL; PnLNotional is the raw
	// price-difference-times-quantity form. Both are kept because consumers
	// legitimately need both and must not re-derive one from the other.
	PnLPercent  float64 `json:"pnlPercent"`
	PnLNotional float64 `json:"pnlNotional"`
}

// OpenPosition is the weighted-average view of all remaining open lots for a
// partition, used for live (unrealized) PnL reporting.
type OpenPosition struct {
	Symbol               string    `json:"symbol"`
	Strategy             string    `json:"strategy"`
	Direction            Direction `json:"direction"`
	LotCount             int       `json:"lotCount"`
	TotalQuantity        float64   `json:"totalQuantity"`
	AvgEntryPrice        float64   `json:"avgEntryPrice"`
	CurrentPrice         float64   `json:"currentPrice"`
	UnrealizedPnLPercent float64   `json:"unrealizedPnlPercent"`
	Priced               bool      `json:"priced"` // false when no live price was available
}
