// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/arbsentry/spread-bot/internal/symbol"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig              `mapstructure:"app"`
	Scan      ScanConfig             `mapstructure:"scan"`
	Venues    map[string]VenueConfig `mapstructure:"venues"`
	Coins     CoinsConfig            `mapstructure:"coins"`
	Profile   ProfileConfig          `mapstructure:"profile"`
	Telemetry TelemetryConfig        `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ScanConfig holds scan loop timings and alert delivery settings.
type ScanConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`  // pause between iterations
	ErrorBackoff  time.Duration `mapstructure:"error_backoff"`  // pause after an iteration-level failure
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`  // per exchange call
	AlertCooldown time.Duration `mapstructure:"alert_cooldown"` // min gap between alerts per (user, coin)
	AlertSink     string        `mapstructure:"alert_sink"`     // "console" or "slog"
}

// VenueConfig holds one exchange's static profile.
type VenueConfig struct {
	Name              string        `mapstructure:"name"`
	Kind              string        `mapstructure:"kind"` // "cex" or "dex"
	BaseURL           string        `mapstructure:"base_url"`
	MakerFeePct       float64       `mapstructure:"maker_fee_pct"`
	TakerFeePct       float64       `mapstructure:"taker_fee_pct"`
	DealURLTemplate   string        `mapstructure:"deal_url_template"` // {SYM} placeholder
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	QuoteCacheTTL     time.Duration `mapstructure:"quote_cache_ttl"`
	Disabled          bool          `mapstructure:"disabled"`
}

// MakerFeePctDecimal returns the maker fee (percent of nominal) as decimal.
func (v *VenueConfig) MakerFeePctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(v.MakerFeePct)
}

// TakerFeePctDecimal returns the taker fee (percent of nominal) as decimal.
func (v *VenueConfig) TakerFeePctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(v.TakerFeePct)
}

// ProfileConfig holds the default subscriber settings applied at startup.
type ProfileConfig struct {
	MinSpreadPct    float64 `mapstructure:"min_spread_pct"`
	MinProfitUSD    float64 `mapstructure:"min_profit_usd"`
	PositionSizeUSD float64 `mapstructure:"position_size_usd"`
	Leverage        float64 `mapstructure:"leverage"`
}

// CoinsConfig holds the known coin catalog.
type CoinsConfig struct {
	Catalog []string `mapstructure:"catalog"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // zipkin, otlp, console, none
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SPREADBOT")
	v.AutomaticEnv()
	bindEnvVars(v)
	setDefaults(v)

	// Config file is optional; env vars and defaults cover a full setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Coins.Catalog = normalizeCatalog(cfg.Coins.Catalog)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func normalizeCatalog(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		ticker := symbol.Normalize(entry)
		if ticker == "" {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	return out
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "SPREADBOT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SPREADBOT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SPREADBOT_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("scan.tick_interval", "SPREADBOT_SCAN_TICK_INTERVAL")
	v.BindEnv("scan.error_backoff", "SPREADBOT_SCAN_ERROR_BACKOFF")
	v.BindEnv("scan.fetch_timeout", "SPREADBOT_SCAN_FETCH_TIMEOUT")
	v.BindEnv("scan.alert_cooldown", "SPREADBOT_SCAN_ALERT_COOLDOWN")
	v.BindEnv("scan.alert_sink", "SPREADBOT_SCAN_ALERT_SINK")

	v.BindEnv("telemetry.enabled", "SPREADBOT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SPREADBOT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SPREADBOT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "spread-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("scan.tick_interval", "1s")
	v.SetDefault("scan.error_backoff", "5s")
	v.SetDefault("scan.fetch_timeout", "3s")
	v.SetDefault("scan.alert_cooldown", "1m")
	v.SetDefault("scan.alert_sink", "console")

	// Venue catalog. Fees are percent of nominal per leg.
	v.SetDefault("venues.bybit", map[string]any{
		"name":              "Bybit",
		"kind":              "cex",
		"base_url":          "https://api.bybit.com",
		"maker_fee_pct":     0.01,
		"taker_fee_pct":     0.06,
		"deal_url_template": "https://www.bybit.com/trade/usdt/{SYM}USDT",
	})
	v.SetDefault("venues.okx", map[string]any{
		"name":              "OKX",
		"kind":              "cex",
		"base_url":          "https://www.okx.com",
		"maker_fee_pct":     0.02,
		"taker_fee_pct":     0.05,
		"deal_url_template": "https://www.okx.com/trade-swap/{SYM}-usdt-swap",
	})
	v.SetDefault("venues.mexc", map[string]any{
		"name":              "MEXC",
		"kind":              "cex",
		"base_url":          "https://api.mexc.com",
		"maker_fee_pct":     0.0,
		"taker_fee_pct":     0.02,
		"deal_url_template": "https://www.mexc.com/exchange/{SYM}_USDT",
	})
	v.SetDefault("venues.gate", map[string]any{
		"name":              "Gate.io",
		"kind":              "cex",
		"base_url":          "https://api.gateio.ws",
		"maker_fee_pct":     0.015,
		"taker_fee_pct":     0.05,
		"deal_url_template": "https://www.gate.io/trade/{SYM}_USDT",
	})
	v.SetDefault("venues.hyperliquid", map[string]any{
		"name":              "Hyperliquid",
		"kind":              "dex",
		"base_url":          "https://api.hyperliquid.xyz",
		"maker_fee_pct":     0.02,
		"taker_fee_pct":     0.05,
		"deal_url_template": "https://app.hyperliquid.xyz/exchange/{SYM}-USD",
	})
	v.SetDefault("venues.hibachi", map[string]any{
		"name":                "Hibachi",
		"kind":                "dex",
		"base_url":            "https://data-api.hibachi.xyz",
		"maker_fee_pct":       0.02,
		"taker_fee_pct":       0.05,
		"deal_url_template":   "https://app.hibachi.fi/perpetual/{SYM}",
		"requests_per_minute": 30,
		"quote_cache_ttl":     "5s",
	})

	v.SetDefault("coins.catalog", []string{
		"BTC", "ETH", "SOL", "BNB", "XRP", "ADA", "DOGE", "DOT", "MATIC", "AVAX",
		"LINK", "UNI", "ATOM", "ETC", "LTC", "BCH", "XLM", "ALGO", "VET", "FIL",
		"TRX", "EOS", "AAVE", "MKR", "COMP", "SNX", "YFI", "SUSHI", "CRV", "1INCH",
		"ARB", "OP", "APT", "SUI", "TIA", "SEI", "INJ", "NEAR", "FTM",
		"ICP", "HBAR", "QNT", "EGLD", "FLOW", "THETA", "AXS", "SAND", "MANA", "ENJ",
	})

	v.SetDefault("profile.min_spread_pct", 1.0)
	v.SetDefault("profile.min_profit_usd", 5.0)
	v.SetDefault("profile.position_size_usd", 100.0)
	v.SetDefault("profile.leverage", 1.0)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "spread-bot")
	v.SetDefault("telemetry.trace_provider", "none")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	enabled := 0
	for id, venue := range c.Venues {
		if venue.Disabled {
			continue
		}
		if venue.BaseURL == "" {
			return fmt.Errorf("venues.%s.base_url is required", id)
		}
		if venue.Kind != "cex" && venue.Kind != "dex" {
			return fmt.Errorf("venues.%s.kind must be cex or dex, got %q", id, venue.Kind)
		}
		if venue.MakerFeePct < 0 || venue.TakerFeePct < 0 {
			return fmt.Errorf("venues.%s fees must be non-negative", id)
		}
		enabled++
	}
	if enabled < 2 {
		return fmt.Errorf("at least 2 enabled venues required, got %d", enabled)
	}
	if len(c.Coins.Catalog) == 0 {
		return fmt.Errorf("coins.catalog cannot be empty")
	}
	if c.Scan.TickInterval <= 0 {
		return fmt.Errorf("scan.tick_interval must be positive")
	}
	if c.Scan.FetchTimeout <= 0 {
		return fmt.Errorf("scan.fetch_timeout must be positive")
	}
	if c.Scan.AlertSink != "console" && c.Scan.AlertSink != "slog" {
		return fmt.Errorf("scan.alert_sink must be console or slog, got %q", c.Scan.AlertSink)
	}
	return nil
}
