package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalAnalytics/config"
	"signalAnalytics/internal/analytics"
	"signalAnalytics/internal/domain"
	"signalAnalytics/internal/ports"
)

// Mock implementations

type mockLogger struct {
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockRepo struct {
	events    []*domain.RawEvent
	err       error
	lastSince time.Time
}

func (m *mockRepo) CreateExecution(ctx context.Context, ev *domain.RawEvent) (int64, error) {
	return 0, nil
}
func (m *mockRepo) FindByProvider(ctx context.Context, provider string, since time.Time) ([]*domain.RawEvent, error) {
	m.lastSince = since
	return m.events, m.err
}
func (m *mockRepo) FindByStrategy(ctx context.Context, provider, strategy string, since time.Time) ([]*domain.RawEvent, error) {
	m.lastSince = since
	return m.events, m.err
}
func (m *mockRepo) ListProviders(ctx context.Context) ([]string, error) {
	return nil, nil
}

type mockPrices struct {
	prices map[string]float64
	err    error
	calls  int
}

func (m *mockPrices) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.prices[symbol], nil
}

func testConfig() *config.Config {
	return &config.Config{
		FeePerSide:   0.05,
		ScoreWeights: analytics.DefaultWeights,
	}
}

func rawEvents() []*domain.RawEvent {
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	return []*domain.RawEvent{
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "buy", Price: 100, Quantity: 2, ExecutedAt: base},
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "sell", Price: 110, Quantity: 1, ExecutedAt: base.Add(time.Hour)},
	}
}

func TestNewReportService_Validation(t *testing.T) {
	cfg := testConfig()
	log := &mockLogger{}
	repo := &mockRepo{}

	_, err := NewReportService(nil, log, repo, nil)
	assert.Error(t, err)
	_, err = NewReportService(cfg, nil, repo, nil)
	assert.Error(t, err)
	_, err = NewReportService(cfg, log, nil, nil)
	assert.Error(t, err)

	// A nil price source is allowed, with a warning
	svc, err := NewReportService(cfg, log, repo, nil)
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NotEmpty(t, log.warnMsgs)
}

func TestProviderReport_FullPipeline(t *testing.T) {
	repo := &mockRepo{events: rawEvents()}
	prices := &mockPrices{prices: map[string]float64{"BTCUSDT": 120}}
	svc, err := NewReportService(testConfig(), &mockLogger{}, repo, prices)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 10, PeriodAllTime)
	require.NoError(t, err)

	assert.Equal(t, "alpha", report.Provider)
	assert.Equal(t, PeriodAllTime, report.Period)
	assert.True(t, repo.lastSince.IsZero())

	// One closed unit at +9.9%, one unit still open
	require.Len(t, report.Closed, 1)
	assert.InDelta(t, 9.9, report.Closed[0].PnLPercent, 1e-9)
	assert.Equal(t, 1, report.Summary.TotalTrades)
	assert.InDelta(t, 100.0, report.Summary.WinRate, 1e-9)

	require.Len(t, report.Open, 1)
	open := report.Open[0]
	assert.True(t, open.Priced)
	assert.Equal(t, 120.0, open.CurrentPrice)
	assert.Equal(t, 1.0, open.TotalQuantity)
	assert.InDelta(t, 19.9, open.UnrealizedPnLPercent, 1e-9)

	// Equity curve has the implicit zero point plus one trade
	require.Len(t, report.EquityCurve, 2)
	assert.InDelta(t, 9.9, report.EquityCurve[1].CumulativePnL, 1e-9)

	assert.Len(t, report.MonthlyBuckets, 1)
	assert.Len(t, report.Distribution, 6)
	assert.Greater(t, report.CompositeScore, 0.0)
	assert.Equal(t, 10, report.SubscriberCount)
	assert.Zero(t, report.OrphanedCloses)
	assert.Zero(t, report.MalformedEvents)
	assert.Empty(t, report.PartitionErrors)
}

func TestProviderReport_PeriodCutoffs(t *testing.T) {
	repo := &mockRepo{}
	svc, err := NewReportService(testConfig(), &mockLogger{}, repo, nil)
	require.NoError(t, err)

	_, err = svc.ProviderReport(context.Background(), "alpha", 0, PeriodWeek)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), repo.lastSince, time.Minute)

	_, err = svc.ProviderReport(context.Background(), "alpha", 0, PeriodMonth)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), repo.lastSince, time.Minute)

	_, err = svc.ProviderReport(context.Background(), "alpha", 0, "fortnight")
	assert.Error(t, err)
}

func TestProviderReport_RepositoryFailure(t *testing.T) {
	repo := &mockRepo{err: errors.New("disk on fire")}
	svc, err := NewReportService(testConfig(), &mockLogger{}, repo, nil)
	require.NoError(t, err)

	_, err = svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	assert.Error(t, err)
}

func TestProviderReport_PriceFailureDegradesGracefully(t *testing.T) {
	log := &mockLogger{}
	repo := &mockRepo{events: rawEvents()}
	prices := &mockPrices{err: errors.New("price source down")}
	svc, err := NewReportService(testConfig(), log, repo, prices)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	require.NoError(t, err)

	require.Len(t, report.Open, 1)
	assert.False(t, report.Open[0].Priced)
	assert.NotEmpty(t, log.warnMsgs)
}

func TestProviderReport_CountsOrphansAndMalformed(t *testing.T) {
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	log := &mockLogger{}
	repo := &mockRepo{events: []*domain.RawEvent{
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "sell", Price: 110, Quantity: 1, ExecutedAt: base},
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "buy", Price: 0, Quantity: 1, ExecutedAt: base},
	}}
	svc, err := NewReportService(testConfig(), log, repo, nil)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	require.NoError(t, err)

	assert.Equal(t, 1, report.OrphanedCloses)
	assert.Equal(t, 1, report.MalformedEvents)
	assert.Empty(t, report.Closed)
	assert.NotEmpty(t, log.warnMsgs)
}

func TestStrategyReport_SetsStrategy(t *testing.T) {
	repo := &mockRepo{events: rawEvents()}
	svc, err := NewReportService(testConfig(), &mockLogger{}, repo, nil)
	require.NoError(t, err)

	report, err := svc.StrategyReport(context.Background(), "alpha", "trend", 5, PeriodAllTime)
	require.NoError(t, err)
	assert.Equal(t, "alpha", report.Provider)
	assert.Equal(t, "trend", report.Strategy)
}

func TestProviderReport_PriceLookupCachedPerSymbol(t *testing.T) {
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	// Two strategies leave open BTC positions; one ticker call must serve both
	repo := &mockRepo{events: []*domain.RawEvent{
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "buy", Price: 100, Quantity: 1, ExecutedAt: base},
		{Provider: "alpha", Strategy: "meanrev", Symbol: "BTCUSDT", Side: "buy", Price: 200, Quantity: 1, ExecutedAt: base},
	}}
	calls := 0
	prices := ports.PriceFunc(func(ctx context.Context, symbol string) (float64, error) {
		calls++
		return 210, nil
	})
	svc, err := NewReportService(testConfig(), &mockLogger{}, repo, prices)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	require.NoError(t, err)
	require.Len(t, report.Open, 2)
	assert.Equal(t, 1, calls)
}

type mockMarkPrices struct {
	mockPrices
	markPrices map[string]float64
	markCalls  int
}

func (m *mockMarkPrices) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	m.markCalls++
	if m.err != nil {
		return 0, m.err
	}
	return m.markPrices[symbol], nil
}

func TestProviderReport_PrefersMarkPriceWhenConfigured(t *testing.T) {
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	repo := &mockRepo{events: []*domain.RawEvent{
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "buy", Price: 100, Quantity: 1, ExecutedAt: base},
	}}
	prices := &mockMarkPrices{
		mockPrices: mockPrices{prices: map[string]float64{"BTCUSDT": 120}},
		markPrices: map[string]float64{"BTCUSDT": 118},
	}

	cfg := testConfig()
	cfg.UseMarkPrice = true
	svc, err := NewReportService(cfg, &mockLogger{}, repo, prices)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	require.NoError(t, err)
	require.Len(t, report.Open, 1)
	assert.Equal(t, 118.0, report.Open[0].CurrentPrice)
	assert.Equal(t, 1, prices.markCalls)
	assert.Equal(t, 0, prices.calls)
}

func TestProviderReport_MarkPriceFallsBackToTicker(t *testing.T) {
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	repo := &mockRepo{events: []*domain.RawEvent{
		{Provider: "alpha", Strategy: "trend", Symbol: "BTCUSDT", Side: "buy", Price: 100, Quantity: 1, ExecutedAt: base},
	}}
	// Source publishes only ticker prices
	prices := &mockPrices{prices: map[string]float64{"BTCUSDT": 120}}

	cfg := testConfig()
	cfg.UseMarkPrice = true
	log := &mockLogger{}
	svc, err := NewReportService(cfg, log, repo, prices)
	require.NoError(t, err)

	report, err := svc.ProviderReport(context.Background(), "alpha", 0, PeriodAllTime)
	require.NoError(t, err)
	require.Len(t, report.Open, 1)
	assert.Equal(t, 120.0, report.Open[0].CurrentPrice)
	assert.Equal(t, 1, prices.calls)
	assert.NotEmpty(t, log.warnMsgs)
}
