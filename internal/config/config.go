package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Timezone is the local timezone all series are expressed in.
	Timezone *time.Location

	// Upstream feeds. RollingFeedURL returns a rolling multi-day window of
	// quarter-hour prices; DayFeedURLTemplate is queried per day with
	// {year} and {monthDay} placeholders.
	RollingFeedURL     string
	DayFeedURLTemplate string

	// HTTPTimeout bounds each outbound feed call.
	HTTPTimeout time.Duration

	// Feed memoization. Empty no-data answers use the shorter TTL so
	// tomorrow's prices appear soon after publication.
	SeriesCacheTTL time.Duration
	EmptyCacheTTL  time.Duration

	// FetchInterval controls how often the scheduler warms the series.
	FetchInterval time.Duration

	// Presentation knobs for the rolling view.
	WindowSlots   int
	AxisStepCents float64

	// TraceCapacity bounds the diagnostics ring buffer.
	TraceCapacity int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	tzName := getenvDefault("SPOT_TIMEZONE", "Europe/Helsinki")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SPOT_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	cfg.RollingFeedURL = getenvDefault("ROLLING_FEED_URL", "https://api.porssisahko.net/v2/latest-prices.json")
	cfg.DayFeedURLTemplate = getenvDefault("DAY_FEED_URL_TEMPLATE", "https://api.porssisahko.net/v1/prices/{year}/{monthDay}.json")

	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg.SeriesCacheTTL, err = getenvDuration("SERIES_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.EmptyCacheTTL, err = getenvDuration("EMPTY_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}

	cfg.WindowSlots = getenvInt("WINDOW_SLOTS", 48)
	cfg.AxisStepCents = float64(getenvInt("AXIS_STEP_CENTS", 5))
	cfg.TraceCapacity = getenvInt("TRACE_CAPACITY", 64)

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
