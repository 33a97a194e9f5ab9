package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func getenvMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadAppliesDefaultsWhenEnvEmpty(t *testing.T) {
	cfg, err := Load(getenvMap(nil))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	cfg, err := Load(getenvMap(map[string]string{
		"POLL_INTERVAL_SECONDS": "30",
		"BUS_TOPIC":             "custom-topic",
		"PEAK_HOURS_LOCAL":      "7, 8, 17",
	}))
	require.NoError(t, err)
	require.Equal(t, 30, cfg.PollIntervalSeconds)
	require.Equal(t, "custom-topic", cfg.BusTopic)
	require.Equal(t, []int{7, 8, 17}, cfg.PeakHoursLocal)
}

func TestLoadRejectsInvalidInt(t *testing.T) {
	_, err := Load(getenvMap(map[string]string{"POLL_INTERVAL_SECONDS": "not-a-number"}))
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsNonPositiveIntervals(t *testing.T) {
	cfg := Default()
	cfg.PollIntervalSeconds = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangePeakHour(t *testing.T) {
	cfg := Default()
	cfg.PeakHoursLocal = []int{24}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyBusTopic(t *testing.T) {
	cfg := Default()
	cfg.BusTopic = ""
	require.Error(t, cfg.Validate())
}

func TestDurationHelpersConvertSecondsCorrectly(t *testing.T) {
	cfg := Default()
	require.Equal(t, 15_000_000_000, int(cfg.PollInterval()))
	require.Equal(t, 3_600_000_000_000, int(cfg.RealtimeRetention()))
}
