// README: Config loader (viper) with env overrides for HTTP, DB, Redis, auth and toll rules.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tollfee/internal/modules/toll"
)

const envPrefix = "TOLL"

type BandConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
	Fee  int    `mapstructure:"fee"`
}

type TollConfig struct {
	WindowMinutes int          `mapstructure:"window_minutes"`
	DailyCap      int          `mapstructure:"daily_cap"`
	Currency      string       `mapstructure:"currency"`
	Timezone      string       `mapstructure:"timezone"`
	HolidayDates  []string     `mapstructure:"holiday_dates"`
	Bands         []BandConfig `mapstructure:"bands"`
}

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Auth struct {
		FirebaseProjectID string `mapstructure:"firebase_project_id"`
		CredentialsFile   string `mapstructure:"credentials_file"`
	} `mapstructure:"auth"`
	Toll TollConfig `mapstructure:"toll"`
}

// Load reads the optional YAML file at path (empty to skip) and applies
// TOLL_* environment overrides, e.g. TOLL_HTTP_ADDR or TOLL_TOLL_DAILY_CAP.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.firebase_project_id", "")
	v.SetDefault("auth.credentials_file", "")
	v.SetDefault("toll.window_minutes", 60)
	v.SetDefault("toll.daily_cap", 60)
	v.SetDefault("toll.currency", "SEK")
	v.SetDefault("toll.timezone", "Local")
	v.SetDefault("toll.holiday_dates", toll.DefaultHolidayDates())
	v.SetDefault("toll.bands", defaultBands())
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Toll.WindowMinutes <= 0 {
		errs = append(errs, errors.New("toll.window_minutes must be positive"))
	}
	if c.Toll.DailyCap <= 0 {
		errs = append(errs, errors.New("toll.daily_cap must be positive"))
	}
	if len(c.Toll.Bands) == 0 {
		errs = append(errs, errors.New("toll.bands must not be empty"))
	} else if _, err := c.Toll.Schedule(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Toll.Holidays(); err != nil {
		errs = append(errs, fmt.Errorf("toll.holiday_dates: %w", err))
	}
	if _, err := c.Toll.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func defaultBands() []map[string]any {
	schedule := toll.DefaultSchedule()
	out := make([]map[string]any, 0, len(schedule))
	for _, b := range schedule {
		out = append(out, map[string]any{"from": b.Start.String(), "to": b.End.String(), "fee": b.Fee})
	}
	return out
}

// Schedule parses the configured bands in order.
func (t TollConfig) Schedule() (toll.Schedule, error) {
	schedule := make(toll.Schedule, 0, len(t.Bands))
	for i, b := range t.Bands {
		band, err := toll.ParseBand(b.From, b.To, b.Fee)
		if err != nil {
			return nil, fmt.Errorf("toll.bands[%d]: %w", i, err)
		}
		schedule = append(schedule, band)
	}
	return schedule, nil
}

func (t TollConfig) Rules() toll.Rules {
	return toll.Rules{
		Window:   time.Duration(t.WindowMinutes) * time.Minute,
		DailyCap: t.DailyCap,
	}
}

func (t TollConfig) Holidays() ([]time.Time, error) {
	return toll.ParseHolidayDates(t.HolidayDates)
}

// Location resolves toll.timezone; "" and "Local" mean the host zone.
func (t TollConfig) Location() (*time.Location, error) {
	if t.Timezone == "" || t.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("toll.timezone: %w", err)
	}
	return loc, nil
}
