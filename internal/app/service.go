// Package app wires the execution repository, the live price source and the
// matching/analytics engine into provider- and strategy-level reports. This
// is the layer that owns I/O and failure isolation; the engine packages it
// calls are pure.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"signalAnalytics/config"
	"signalAnalytics/internal/analytics"
	"signalAnalytics/internal/domain"
	"signalAnalytics/internal/matching"
	"signalAnalytics/internal/normalize"
	"signalAnalytics/internal/ports"
)

// Report periods supported by the marketplace views.
const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodAllTime = "all-time"
)

// Report is the full analytics payload for one provider or strategy,
// ready for JSON encoding.
type Report struct {
	Provider        string                      `json:"provider"`
	Strategy        string                      `json:"strategy,omitempty"`
	Period          string                      `json:"period"`
	GeneratedAt     time.Time                   `json:"generatedAt"`
	Summary         domain.PerformanceSummary   `json:"summary"`
	CompositeScore  float64                     `json:"compositeScore"`
	SubscriberCount int                         `json:"subscriberCount"`
	Closed          []domain.ClosedPosition     `json:"closedPositions"`
	Open            []domain.OpenPosition       `json:"openPositions"`
	OrphanedCloses  int                         `json:"orphanedCloses"`
	MalformedEvents int                         `json:"malformedEvents"`
	MonthlyBuckets  []domain.MonthlyBucket      `json:"monthlyBuckets"`
	EquityCurve     []domain.EquityPoint        `json:"equityCurve"`
	Distribution    []domain.DistributionBucket `json:"distribution"`
	PartitionErrors []string                    `json:"partitionErrors,omitempty"`
}

// ReportService builds performance reports from the execution log.
type ReportService struct {
	cfg     *config.Config
	logger  ports.Logger
	repo    ports.ExecutionRepository
	prices  ports.PriceSource
	matcher *matching.Matcher
}

// NewReportService creates a new report service. The price source may be nil,
// in which case open positions are reported without live PnL.
func NewReportService(
	cfg *config.Config,
	logger ports.Logger,
	repo ports.ExecutionRepository,
	prices ports.PriceSource,
) (*ReportService, error) {
	if cfg == nil || logger == nil || repo == nil {
		return nil, fmt.Errorf("missing required dependencies for ReportService")
	}
	if prices == nil {
		logger.Warn(context.Background(), "No price source configured; open positions will not be marked to market")
	}

	return &ReportService{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		prices:  prices,
		matcher: matching.NewMatcher(cfg.FeePerSide),
	}, nil
}

// ProviderReport builds the analytics report across all of a provider's
// strategies. The subscriber count is an external marketplace input used only
// for the composite score.
func (s *ReportService) ProviderReport(ctx context.Context, provider string, subscriberCount int, period string) (*Report, error) {
	cutoff, err := cutoffFor(period)
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.FindByProvider(ctx, provider, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetching executions for provider %s: %w", provider, err)
	}

	report := s.buildReport(ctx, raw, subscriberCount, period)
	report.Provider = provider
	return report, nil
}

// StrategyReport builds the analytics report for a single strategy.
func (s *ReportService) StrategyReport(ctx context.Context, provider, strategy string, subscriberCount int, period string) (*Report, error) {
	cutoff, err := cutoffFor(period)
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.FindByStrategy(ctx, provider, strategy, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetching executions for strategy %s/%s: %w", provider, strategy, err)
	}

	report := s.buildReport(ctx, raw, subscriberCount, period)
	report.Provider = provider
	report.Strategy = strategy
	return report, nil
}

// buildReport runs the full pipeline: normalize, partition, match each
// partition independently (one bad partition never aborts the rest), mark
// open positions to market, then aggregate.
func (s *ReportService) buildReport(ctx context.Context, raw []*domain.RawEvent, subscriberCount int, period string) *Report {
	report := &Report{
		Period:          period,
		GeneratedAt:     time.Now().UTC(),
		SubscriberCount: subscriberCount,
		Closed:          make([]domain.ClosedPosition, 0),
		Open:            make([]domain.OpenPosition, 0),
	}

	events, malformed := normalize.Normalize(raw)
	report.MalformedEvents = len(malformed)
	for _, err := range malformed {
		s.logger.Warn(ctx, "Rejected malformed execution record", map[string]interface{}{"reason": err.Error()})
	}

	partitions := matching.Partition(events)
	keys := make([]string, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic report ordering

	priceCache := make(map[string]float64)
	for _, key := range keys {
		result, err := s.matcher.Match(partitions[key])
		if err != nil {
			s.logger.Error(ctx, err, "Matching failed for partition", map[string]interface{}{"partition": key})
			report.PartitionErrors = append(report.PartitionErrors, fmt.Sprintf("%s: %v", key, err))
			continue
		}

		report.Closed = append(report.Closed, result.Closed...)
		report.OrphanedCloses += len(result.Orphaned)
		for _, orphan := range result.Orphaned {
			s.logger.Warn(ctx, "Closing event had no open lot to match", map[string]interface{}{
				"partition": key,
				"quantity":  orphan.Quantity,
				"price":     orphan.Price,
				"time":      orphan.Timestamp,
			})
		}

		if pos := matching.AggregateOpenLots(result.Open); pos != nil {
			s.markOpenPosition(ctx, pos, priceCache)
			report.Open = append(report.Open, *pos)
		}
	}

	report.Summary = analytics.Aggregate(report.Closed)
	report.CompositeScore = analytics.CompositeScore(report.Summary, subscriberCount, s.cfg.ScoreWeights)
	report.MonthlyBuckets = analytics.BucketByMonth(report.Closed)
	report.EquityCurve = analytics.BuildEquityCurve(report.Closed)
	report.Distribution = analytics.Distribution(report.Closed)
	return report
}

// markOpenPosition fills in live PnL for an open position. A missing price
// source or a failed lookup degrades to an unpriced position; it never fails
// the report.
func (s *ReportService) markOpenPosition(ctx context.Context, pos *domain.OpenPosition, cache map[string]float64) {
	if s.prices == nil {
		return
	}

	price, ok := cache[pos.Symbol]
	if !ok {
		var err error
		price, err = s.lookupPrice(ctx, pos.Symbol)
		if err != nil {
			s.logger.Warn(ctx, "Live price unavailable; reporting open position unpriced", map[string]interface{}{
				"symbol": pos.Symbol,
				"error":  err.Error(),
			})
			return
		}
		cache[pos.Symbol] = price
	}

	if err := s.matcher.MarkToMarket(pos, price); err != nil {
		s.logger.Warn(ctx, "Could not mark open position to market", map[string]interface{}{
			"symbol": pos.Symbol,
			"error":  err.Error(),
		})
	}
}

// lookupPrice resolves the marking price for a symbol. When USE_MARK_PRICE is
// set and the source publishes a mark price, that takes precedence over the
// last traded price; futures PnL settles against the mark.
func (s *ReportService) lookupPrice(ctx context.Context, symbol string) (float64, error) {
	if s.cfg.UseMarkPrice {
		if src, ok := s.prices.(ports.MarkPriceSource); ok {
			return src.GetMarkPrice(ctx, symbol)
		}
		s.logger.Warn(ctx, "Mark price requested but source only provides ticker prices", map[string]interface{}{"symbol": symbol})
	}
	return s.prices.GetTickerPrice(ctx, symbol)
}

func cutoffFor(period string) (time.Time, error) {
	now := time.Now()
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return now.AddDate(0, 0, -30), nil
	case PeriodAllTime, "":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unknown report period %q", period)
	}
}
