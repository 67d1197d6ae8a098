// Package matching implements FIFO position matching: closing quantity is
// always consumed from the oldest still-open lot, with partial-lot support in
// both directions (one exit across many lots, one lot across many exits).
package matching

import (
	"fmt"

	"signalAnalytics/internal/domain"
)

// MatchResult holds everything a matching pass produced for one partition.
// Orphaned carries closing events (with their residual quantity) that found
// no open lot to match against; they are reported, never silently dropped.
type MatchResult struct {
	Closed   []domain.ClosedPosition
	Open     []domain.OpenLot
	Orphaned []domain.TradeEvent
}

// OrphanedQuantity sums the unmatched closing quantity.
func (r *MatchResult) OrphanedQuantity() float64 {
	var total float64
	for _, ev := range r.Orphaned {
		total += ev.Quantity
	}
	return total
}

// Matcher matches canonical trade events for a single partition.
// It is stateless between calls and safe to share across goroutines.
type Matcher struct {
	feePerSide float64
}

// NewMatcher creates a matcher with the given per-side fee (in percentage
// points). A negative fee falls back to DefaultFeePerSide.
func NewMatcher(feePerSide float64) *Matcher {
	if feePerSide < 0 {
		feePerSide = DefaultFeePerSide
	}
	return &Matcher{feePerSide: feePerSide}
}

// Match consumes one partition's events in order and produces closed
// positions plus the lots still open at the end.
//
// Events must all belong to the same partition (symbol, strategy, direction)
// and be sorted ascending by timestamp; the normalizer guarantees both when
// combined with Partition. Mixed partitions are rejected rather than matched
// across unrelated books.
func (m *Matcher) Match(events []domain.TradeEvent) (*MatchResult, error) {
	res := &MatchResult{
		Closed: make([]domain.ClosedPosition, 0, len(events)/2),
		Open:   make([]domain.OpenLot, 0),
	}
	if len(events) == 0 {
		return res, nil
	}

	key := events[0].PartitionKey()
	queue := make([]domain.OpenLot, 0, len(events))

	for _, ev := range events {
		if ev.PartitionKey() != key {
			return nil, fmt.Errorf("event for partition %s in a %s batch: partition events before matching", ev.PartitionKey(), key)
		}

		switch ev.Kind {
		case domain.KindOpen:
			queue = append(queue, domain.OpenLot{
				Symbol:     ev.Symbol,
				Strategy:   ev.Strategy,
				Direction:  ev.Direction,
				EntryPrice: ev.Price,
				Quantity:   ev.Quantity,
				EntryTime:  ev.Timestamp,
			})

		case domain.KindClose:
			remaining := ev.Quantity
			for remaining > 0 && len(queue) > 0 {
				lot := queue[0]
				queue = queue[1:]

				matched := remaining
				if lot.Quantity < matched {
					matched = lot.Quantity
				}

				closed, err := m.close(lot, ev, matched)
				if err != nil {
					return nil, err
				}
				res.Closed = append(res.Closed, closed)
				remaining -= matched

				if lot.Quantity > matched {
					// Partially consumed: the remainder stays at the front
					// of the queue so it is still the oldest lot.
					lot.Quantity -= matched
					queue = append([]domain.OpenLot{lot}, queue...)
				}
			}

			if remaining > 0 {
				orphan := ev
				orphan.Quantity = remaining
				res.Orphaned = append(res.Orphaned, orphan)
			}

		default:
			return nil, fmt.Errorf("event with kind %q: events must be normalized before matching", ev.Kind)
		}
	}

	res.Open = append(res.Open, queue...)
	return res, nil
}

func (m *Matcher) close(lot domain.OpenLot, exit domain.TradeEvent, qty float64) (domain.ClosedPosition, error) {
	pct, err := PnLPercent(lot.EntryPrice, exit.Price, lot.Direction, m.feePerSide)
	if err != nil {
		return domain.ClosedPosition{}, err
	}
	notional, err := PnLNotional(lot.EntryPrice, exit.Price, qty, lot.Direction)
	if err != nil {
		return domain.ClosedPosition{}, err
	}

	return domain.ClosedPosition{
		Symbol:      lot.Symbol,
		Strategy:    lot.Strategy,
		Direction:   lot.Direction,
		EntryPrice:  lot.EntryPrice,
		ExitPrice:   exit.Price,
		Quantity:    qty,
		EntryTime:   lot.EntryTime,
		ExitTime:    exit.Timestamp,
		PnLPercent:  pct,
		PnLNotional: notional,
	}, nil
}

// Partition splits a normalized event stream by partition key, preserving
// order within each partition. Callers match each partition independently;
// there is no cross-partition dependency, so partitions may be processed
// concurrently.
func Partition(events []domain.TradeEvent) map[string][]domain.TradeEvent {
	parts := make(map[string][]domain.TradeEvent)
	for _, ev := range events {
		key := ev.PartitionKey()
		parts[key] = append(parts[key], ev)
	}
	return parts
}

// AggregateOpenLots folds a partition's remaining lots into the
// weighted-average open position view. Returns nil when there are no lots.
func AggregateOpenLots(lots []domain.OpenLot) *domain.OpenPosition {
	if len(lots) == 0 {
		return nil
	}

	pos := &domain.OpenPosition{
		Symbol:    lots[0].Symbol,
		Strategy:  lots[0].Strategy,
		Direction: lots[0].Direction,
		LotCount:  len(lots),
	}
	var weighted float64
	for _, lot := range lots {
		pos.TotalQuantity += lot.Quantity
		weighted += lot.EntryPrice * lot.Quantity
	}
	if pos.TotalQuantity > 0 {
		pos.AvgEntryPrice = weighted / pos.TotalQuantity
	}
	return pos
}

// MarkToMarket fills in the unrealized PnL of an open position against a
// current price, using the same fee-adjusted percent formula as realized PnL.
func (m *Matcher) MarkToMarket(pos *domain.OpenPosition, currentPrice float64) error {
	pct, err := PnLPercent(pos.AvgEntryPrice, currentPrice, pos.Direction, m.feePerSide)
	if err != nil {
		return err
	}
	pos.CurrentPrice = currentPrice
	pos.UnrealizedPnLPercent = pct
	pos.Priced = true
	return nil
}
