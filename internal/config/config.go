// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all client configuration
type Config struct {
	// Backend
	APIBaseURL     string `validate:"required,url"`
	RequestTimeout time.Duration

	// Local persistence
	StorePath string `validate:"required"`

	// Session engine
	SearchDelayMin  time.Duration // floor of the artificial search delay
	SearchDelayMax  time.Duration
	GeoTimeout      time.Duration // first acquisition
	GeoRefreshAge   time.Duration // max cached age on refresh ticks
	RefreshInterval time.Duration
	CountdownTick   time.Duration
	NearbyRadiusKm  float64

	// Pollers
	InvitePollInterval  time.Duration
	NotifPollInterval   time.Duration
	ShowOnlyFirstInvite bool

	// Screens
	HomeScreen string

	// Ops endpoint (health + metrics)
	OpsAddr       string
	EnableMetrics bool

	// Fallback position for environments without a live geolocation source
	StaticLat float64
	StaticLon float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", "30s"),

		StorePath: getEnv("STORE_PATH", "./meeteat.db"),

		SearchDelayMin:  getEnvDuration("SEARCH_DELAY_MIN", "3s"),
		SearchDelayMax:  getEnvDuration("SEARCH_DELAY_MAX", "5s"),
		GeoTimeout:      getEnvDuration("GEO_TIMEOUT", "10s"),
		GeoRefreshAge:   getEnvDuration("GEO_REFRESH_AGE", "15s"),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", "30s"),
		CountdownTick:   getEnvDuration("COUNTDOWN_TICK", "1s"),
		NearbyRadiusKm:  getEnvFloat("NEARBY_RADIUS_KM", 3.0),

		InvitePollInterval:  getEnvDuration("INVITE_POLL_INTERVAL", "15s"),
		NotifPollInterval:   getEnvDuration("NOTIF_POLL_INTERVAL", "15s"),
		ShowOnlyFirstInvite: getEnvBool("SHOW_ONLY_FIRST_INVITE", true),

		HomeScreen: getEnv("HOME_SCREEN", "home"),

		OpsAddr:       getEnv("OPS_ADDR", ":9190"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),

		StaticLat: getEnvFloat("STATIC_LAT", 0),
		StaticLon: getEnvFloat("STATIC_LON", 0),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.SearchDelayMin < 0 || c.SearchDelayMax < c.SearchDelayMin {
		return fmt.Errorf("search delay range is invalid: [%v, %v]", c.SearchDelayMin, c.SearchDelayMax)
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}

	if c.CountdownTick <= 0 {
		return fmt.Errorf("countdown tick must be positive")
	}

	if c.InvitePollInterval <= 0 || c.NotifPollInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}

	if c.NearbyRadiusKm <= 0 {
		return fmt.Errorf("nearby radius must be positive")
	}

	if c.HomeScreen == "" {
		return fmt.Errorf("home screen name is required")
	}

	return nil
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, fall back to the default
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

// getEnvBool gets a boolean value from environment with a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment with a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
