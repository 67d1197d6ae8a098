package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalAnalytics/internal/domain"
)

func TestWriteClosedPositionsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.csv")
	positions := []domain.ClosedPosition{
		{
			Symbol:      "BTCUSDT",
			Strategy:    "breakout",
			Direction:   domain.Long,
			EntryPrice:  100,
			ExitPrice:   110,
			Quantity:    2,
			EntryTime:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			ExitTime:    time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
			PnLPercent:  9.9,
			PnLNotional: 20,
		},
	}

	require.NoError(t, WriteClosedPositionsToCSV(positions, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "symbol,strategy,direction,entry_price,exit_price,quantity,entry_time,exit_time,pnl_percent,pnl_notional", lines[0])
	assert.Equal(t, "BTCUSDT,breakout,LONG,100,110,2,2025-03-01T09:00:00Z,2025-03-02T09:00:00Z,9.9,20", lines[1])
}

func TestWriteClosedPositionsToCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.csv")
	require.NoError(t, WriteClosedPositionsToCSV(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(string(data)), "\n")+1) // header only
}

func TestReadRawEventsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executions.csv")
	content := strings.Join([]string{
		"provider,strategy,symbol,side,signal_type,direction,price,quantity,executed_at",
		"alpha,breakout,BTCUSDT,buy,ENTRY,LONG,100,2,2025-03-01T09:00:00Z",
		"alpha,breakout,BTCUSDT,sell,EXIT,LONG,110,2,2025-03-02T09:00:00Z",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	events, err := ReadRawEventsFromCSV(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "alpha", events[0].Provider)
	assert.Equal(t, "BTCUSDT", events[0].Symbol)
	assert.Equal(t, 100.0, events[0].Price)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), events[0].ExecutedAt)
	assert.Equal(t, "EXIT", events[1].SignalType)
}

func TestReadRawEventsFromCSV_ShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executions.csv")
	content := "provider,strategy,symbol\nalpha,breakout,BTCUSDT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadRawEventsFromCSV(path)
	require.Error(t, err)
}
