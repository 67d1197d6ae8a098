package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalAnalytics/internal/analytics"
	"signalAnalytics/internal/matching"
	"signalAnalytics/internal/ports"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, matching.DefaultFeePerSide, cfg.FeePerSide)
	assert.Equal(t, analytics.DefaultWeights, cfg.ScoreWeights)
	assert.Equal(t, "all-time", cfg.ReportPeriod)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.UseMarkPrice)
}

func TestLoadConfig_InvalidValuesAreConfigurationErrors(t *testing.T) {
	t.Setenv("FEE_PER_SIDE", "not-a-number")
	t.Setenv("REPORT_PERIOD", "fortnight")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrConfigurationError))
	assert.Contains(t, err.Error(), "FEE_PER_SIDE")
	assert.Contains(t, err.Error(), "REPORT_PERIOD")
}

func TestLoadConfig_NegativeFeeRejected(t *testing.T) {
	t.Setenv("FEE_PER_SIDE", "-0.1")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrConfigurationError))
}

func TestLoadConfig_PartialWeightOverrideRejected(t *testing.T) {
	t.Setenv("SCORE_WEIGHT_WIN_RATE", "0.5")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrConfigurationError))
}

func TestLoadConfig_WeightOverride(t *testing.T) {
	t.Setenv("SCORE_WEIGHT_WIN_RATE", "0.5")
	t.Setenv("SCORE_WEIGHT_PNL", "0.2")
	t.Setenv("SCORE_WEIGHT_SUBSCRIBERS", "0.2")
	t.Setenv("SCORE_WEIGHT_CONSISTENCY", "0.1")
	t.Setenv("USE_MARK_PRICE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, analytics.Weights{WinRate: 0.5, PnL: 0.2, Subscribers: 0.2, Consistency: 0.1}, cfg.ScoreWeights)
	assert.True(t, cfg.UseMarkPrice)
}
