package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "stylecast.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "STYLECAST_PORT")
	setString(&cfg.Server.CORSOrigin, "STYLECAST_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "STYLECAST_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "STYLECAST_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "STYLECAST_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "STYLECAST_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "STYLECAST_PG_HEALTH_CHECK")
	setString(&cfg.LiteLLM.URL, "LITELLM_URL")
	setString(&cfg.LiteLLM.MasterKey, "LITELLM_MASTER_KEY")
	setString(&cfg.OpenWeather.BaseURL, "OPENWEATHER_BASE_URL")
	setString(&cfg.OpenWeather.GeoURL, "OPENWEATHER_GEO_URL")
	setString(&cfg.OpenWeather.APIKey, "OPENWEATHER_API_KEY")
	setDuration(&cfg.OpenWeather.Timeout, "OPENWEATHER_TIMEOUT")
	setInt64(&cfg.Cache.MaxSizeMB, "STYLECAST_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.WeatherTTL, "STYLECAST_WEATHER_TTL")
	setString(&cfg.Logging.Level, "STYLECAST_LOG_LEVEL")
	setString(&cfg.Logging.Service, "STYLECAST_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "STYLECAST_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "STYLECAST_BREAKER_TIMEOUT")
	setBool(&cfg.Telemetry.Enabled, "STYLECAST_TELEMETRY_ENABLED")
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Stylist.RouterModel, "STYLECAST_ROUTER_MODEL")
	setString(&cfg.Stylist.Model, "STYLECAST_MODEL")
	setFloat64(&cfg.Stylist.Temperature, "STYLECAST_TEMPERATURE")
	setFloat64(&cfg.Stylist.RouterTemperature, "STYLECAST_ROUTER_TEMPERATURE")
	setInt(&cfg.Stylist.MaxTokens, "STYLECAST_MAX_TOKENS")
	setInt(&cfg.Stylist.SelectorMaxRounds, "STYLECAST_SELECTOR_MAX_ROUNDS")
	setDuration(&cfg.Stylist.RequestTimeout, "STYLECAST_REQUEST_TIMEOUT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.LiteLLM.URL == "" {
		return errors.New("litellm.url is required")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Stylist.SelectorMaxRounds < 1 {
		return errors.New("stylist.selector_max_rounds must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
