package domain

import (
	"fmt"
	"time"
)

// RawEvent is a single execution or signal record as supplied by a producer
// (database, webhook log, CSV export). Field vocabulary is deliberately loose:
// producers disagree on side spelling, on ENTRY/EXIT tagging, and on whether
// size lives in Quantity or Contracts. The normalizer resolves all of that.
type RawEvent struct {
	ID         int64
	Provider   string // signal provider the record belongs to
	Strategy   string // strategy within the provider
	Symbol     string // e.g. "BTCUSDT"
	Side       string // "buy"/"sell"/"BUY"/"SELL", may be empty for signal records
	SignalType string // "ENTRY"/"EXIT" for signal records, empty for plain fills
	Direction  string // "LONG"/"SHORT" for signal records, empty for plain fills
	Price      float64
	Quantity   float64
	Contracts  float64 // alternate size field used by some producers
	ExecutedAt time.Time
}

// TradeEvent is a canonical, normalized fill: one side vocabulary, one size
// field, an explicit open/close classification and position direction.
type TradeEvent struct {
	Symbol    string
	Strategy  string
	Direction Direction
	Kind      EventKind
	Side      Side
	Price     float64
	Quantity  float64
	Timestamp time.Time
}

// PartitionKey identifies the independent matching partition this event
// belongs to. Matching never crosses partition boundaries.
func (e TradeEvent) PartitionKey() string {
	return fmt.Sprintf("%s|%s|%s", e.Symbol, e.Strategy, e.Direction)
}
