package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()
	require.NoError(t, s.Validate())

	names := make([]string, len(s.Jobs))
	for i, j := range s.Jobs {
		names[i] = j.Name
	}
	assert.Equal(t, []string{"market-open", "hourly-india", "hourly-us", "end-of-day", "weekly"}, names)
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: `
jobs:
  - name: open
    spec: "0 4 * * 1-5"
    respect_calendar: true
    regions: [indian]
  - name: weekly
    spec: "0 2 * * 6"
`,
		},
		{name: "empty", yaml: `jobs: []`, wantErr: "no jobs"},
		{name: "bad spec", yaml: "jobs:\n  - name: x\n    spec: \"every minute\"", wantErr: "invalid cron spec"},
		{name: "duplicate", yaml: "jobs:\n  - {name: x, spec: \"0 1 * * *\"}\n  - {name: x, spec: \"0 2 * * *\"}", wantErr: "duplicate job name"},
		{name: "unknown region", yaml: "jobs:\n  - {name: x, spec: \"0 1 * * *\", regions: [mars]}", wantErr: "unknown region"},
		{name: "missing name", yaml: "jobs:\n  - {spec: \"0 1 * * *\"}", wantErr: "name cannot be empty"},
		{name: "not yaml", yaml: "jobs: [", wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSchedule([]byte(tt.yaml))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, s.Jobs, 2)
			assert.True(t, s.Jobs[0].RespectCalendar)
			assert.Equal(t, []domain.Region{domain.RegionIndian}, s.Jobs[0].Regions)
			assert.False(t, s.Jobs[1].RespectCalendar)
		})
	}
}

func TestLoadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  - {name: nightly, spec: \"0 0 * * *\"}\n"), 0o600))

	s, err := LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly", s.Jobs[0].Name)

	_, err = LoadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarketCalendar(t *testing.T) {
	mc := NewMarketCalendar(testLogger())

	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	christmas := time.Date(2026, 12, 25, 15, 0, 0, 0, time.UTC)

	assert.True(t, mc.IsTradingDay(domain.RegionOther, monday))
	assert.False(t, mc.IsTradingDay(domain.RegionOther, saturday))

	assert.True(t, mc.IsTradingDay(domain.RegionUS, monday))
	assert.False(t, mc.IsTradingDay(domain.RegionUS, saturday))
	assert.False(t, mc.IsTradingDay(domain.RegionUS, christmas))
}
