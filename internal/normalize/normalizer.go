// Package normalize converts heterogeneous raw execution/signal records into
// a canonical, time-ordered TradeEvent stream suitable for FIFO matching.
package normalize

import (
	"sort"
	"strings"

	"signalAnalytics/internal/domain"
)

// Normalize maps a batch of raw records to canonical trade events, sorted
// ascending by execution time. The sort is stable: records sharing a
// timestamp keep their input order, which keeps FIFO matching deterministic.
//
// Records that cannot be normalized (missing price, non-positive quantity,
// unknown side vocabulary, zero timestamp) are rejected and reported in the
// returned error slice as *domain.MalformedEventError. One bad record never
// aborts the batch.
func Normalize(raw []*domain.RawEvent) ([]domain.TradeEvent, []error) {
	events := make([]domain.TradeEvent, 0, len(raw))
	var errs []error

	for i, r := range raw {
		ev, err := normalizeOne(i, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, errs
}

func normalizeOne(idx int, r *domain.RawEvent) (domain.TradeEvent, error) {
	var ev domain.TradeEvent

	if r.ExecutedAt.IsZero() {
		return ev, &domain.MalformedEventError{Index: idx, Field: "executedAt", Reason: "missing timestamp"}
	}
	if r.Price <= 0 {
		return ev, &domain.MalformedEventError{Index: idx, Field: "price", Reason: "must be positive"}
	}

	qty := r.Quantity
	if qty == 0 {
		qty = r.Contracts // some producers report size as contracts
	}
	if qty <= 0 {
		return ev, &domain.MalformedEventError{Index: idx, Field: "quantity", Reason: "must be positive"}
	}

	kind, dir, side, err := classify(idx, r)
	if err != nil {
		return ev, err
	}

	return domain.TradeEvent{
		Symbol:    r.Symbol,
		Strategy:  r.Strategy,
		Direction: dir,
		Kind:      kind,
		Side:      side,
		Price:     r.Price,
		Quantity:  qty,
		Timestamp: r.ExecutedAt,
	}, nil
}

// classify resolves the open/close kind and position direction from whichever
// vocabulary the record uses. Signal records carry an explicit ENTRY/EXIT
// type plus a LONG/SHORT direction; plain execution logs carry only buy/sell,
// which is read as long-only (buy opens, sell closes).
func classify(idx int, r *domain.RawEvent) (domain.EventKind, domain.Direction, domain.Side, error) {
	if r.SignalType != "" {
		dir, err := parseDirection(idx, r.Direction)
		if err != nil {
			return "", "", "", err
		}
		switch domain.SignalType(strings.ToUpper(r.SignalType)) {
		case domain.SignalEntry:
			return domain.KindOpen, dir, entrySide(dir), nil
		case domain.SignalExit:
			return domain.KindClose, dir, exitSide(dir), nil
		default:
			return "", "", "", &domain.MalformedEventError{Index: idx, Field: "signalType", Reason: "unknown signal type " + r.SignalType}
		}
	}

	switch strings.ToUpper(strings.TrimSpace(r.Side)) {
	case string(domain.Buy):
		return domain.KindOpen, domain.Long, domain.Buy, nil
	case string(domain.Sell):
		return domain.KindClose, domain.Long, domain.Sell, nil
	case "":
		return "", "", "", &domain.MalformedEventError{Index: idx, Field: "side", Reason: "missing side"}
	default:
		return "", "", "", &domain.MalformedEventError{Index: idx, Field: "side", Reason: "unknown side " + r.Side}
	}
}

func parseDirection(idx int, raw string) (domain.Direction, error) {
	switch domain.Direction(strings.ToUpper(strings.TrimSpace(raw))) {
	case domain.Long:
		return domain.Long, nil
	case domain.Short:
		return domain.Short, nil
	default:
		return "", &domain.MalformedEventError{Index: idx, Field: "direction", Reason: "unknown direction " + raw}
	}
}

// entrySide maps a position direction to the side that opens it: a LONG
// entry is a buy, a SHORT entry is a sell. exitSide is the opposite leg.
func entrySide(dir domain.Direction) domain.Side {
	if dir == domain.Short {
		return domain.Sell
	}
	return domain.Buy
}

func exitSide(dir domain.Direction) domain.Side {
	if dir == domain.Short {
		return domain.Buy
	}
	return domain.Sell
}
