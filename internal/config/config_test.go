package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollfee/internal/modules/toll"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "SEK", cfg.Toll.Currency)
	assert.Equal(t, toll.DefaultRules(), cfg.Toll.Rules())

	schedule, err := cfg.Toll.Schedule()
	require.NoError(t, err)
	assert.Equal(t, toll.DefaultSchedule(), schedule)

	dates, err := cfg.Toll.Holidays()
	require.NoError(t, err)
	assert.Len(t, dates, len(toll.DefaultHolidayDates()))

	loc, err := cfg.Toll.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOLL_HTTP_ADDR", ":9090")
	t.Setenv("TOLL_TOLL_DAILY_CAP", "45")
	t.Setenv("TOLL_TOLL_HOLIDAY_DATES", "2014-01-01,2014-12-25")
	t.Setenv("TOLL_TOLL_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 45, cfg.Toll.Rules().DailyCap)
	assert.Equal(t, []string{"2014-01-01", "2014-12-25"}, cfg.Toll.HolidayDates)

	loc, err := cfg.Toll.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
toll:
  window_minutes: 30
  currency: NOK
  bands:
    - from: "07:00"
      to: "08:59"
      fee: 25
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Toll.Rules().Window)
	assert.Equal(t, "NOK", cfg.Toll.Currency)

	schedule, err := cfg.Toll.Schedule()
	require.NoError(t, err)
	assert.Equal(t, toll.Schedule{{Start: toll.Clock(7, 0), End: toll.Clock(8, 59), Fee: 25}}, schedule)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Toll.WindowMinutes = 0
	bad.Toll.DailyCap = -1
	bad.Toll.Bands = []BandConfig{{From: "09:00", To: "08:00", Fee: 5}}
	bad.Toll.HolidayDates = []string{"2013-02-30"}
	bad.Toll.Timezone = "Nowhere/Special"

	err = bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, toll.ErrInvalidBand)
	assert.ErrorIs(t, err, toll.ErrInvalidDate)
	assert.Contains(t, err.Error(), "toll.window_minutes")
	assert.Contains(t, err.Error(), "toll.daily_cap")
	assert.Contains(t, err.Error(), "toll.timezone")

	empty := *cfg
	empty.HTTP.Addr = ""
	empty.Toll.Bands = nil
	assert.Error(t, empty.Validate())
}
