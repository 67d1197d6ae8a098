package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"signalAnalytics/internal/domain"
)

// ReadRawEventsFromCSV reads execution records exported as CSV. Expected
// header: provider,strategy,symbol,side,signal_type,direction,price,quantity,executed_at
// (executed_at in RFC3339). Price and quantity parse failures surface as
// zero values and are left for the normalizer to reject, so one bad row does
// not abort the file read.
func ReadRawEventsFromCSV(filename string) ([]*domain.RawEvent, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	events := make([]*domain.RawEvent, 0, len(records)-1)
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) < 9 {
			return nil, fmt.Errorf("%s row %d: expected 9 columns, got %d", filename, i+1, len(rec))
		}

		price, _ := strconv.ParseFloat(rec[6], 64)
		qty, _ := strconv.ParseFloat(rec[7], 64)
		executedAt, _ := time.Parse(time.RFC3339, rec[8])

		events = append(events, &domain.RawEvent{
			Provider:   rec[0],
			Strategy:   rec[1],
			Symbol:     rec[2],
			Side:       rec[3],
			SignalType: rec[4],
			Direction:  rec[5],
			Price:      price,
			Quantity:   qty,
			ExecutedAt: executedAt,
		})
	}
	return events, nil
}

// WriteClosedPositionsToCSV exports matched positions for offline analysis.
func WriteClosedPositionsToCSV(positions []domain.ClosedPosition, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"symbol", "strategy", "direction", "entry_price", "exit_price", "quantity", "entry_time", "exit_time", "pnl_percent", "pnl_notional"})

	for _, p := range positions {
		writer.Write([]string{
			p.Symbol,
			p.Strategy,
			string(p.Direction),
			strconv.FormatFloat(p.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(p.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(p.Quantity, 'f', -1, 64),
			p.EntryTime.Format(time.RFC3339),
			p.ExitTime.Format(time.RFC3339),
			strconv.FormatFloat(p.PnLPercent, 'f', -1, 64),
			strconv.FormatFloat(p.PnLNotional, 'f', -1, 64),
		})
	}
	return writer.Error()
}
