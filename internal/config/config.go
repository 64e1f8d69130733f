package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Assistant AssistantConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig selects the optional durable journal. An empty Driver
// keeps all state in memory for the life of the process.
type DatabaseConfig struct {
	Driver string // "", sqlite, postgres
	URL    string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type LedgerConfig struct {
	CostRatio          decimal.Decimal
	CategoryCostRatios map[string]decimal.Decimal
	StockPolicy        string // clamp, reject
	SeedCatalog        bool
	GrowthBaseline     string // prior, fixed
	BaselineSales      decimal.Decimal
	BaselineProfit     decimal.Decimal
}

type AssistantConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type SchedulerConfig struct {
	AlertCron string // "off" disables the low-stock alert job
}

// AlertsEnabled reports whether the low-stock alert job should be scheduled
func (s SchedulerConfig) AlertsEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(s.AlertCron)) {
	case "", "off", "none":
		return false
	}
	return true
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("port"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("db.driver")),
			URL:    v.GetString("database.url"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Ledger: LedgerConfig{
			StockPolicy:    strings.ToLower(v.GetString("ledger.stock.policy")),
			SeedCatalog:    v.GetBool("ledger.seed.catalog"),
			GrowthBaseline: strings.ToLower(v.GetString("ledger.growth.baseline")),
		},
		Assistant: AssistantConfig{
			APIKey:  v.GetString("gemini.api.key"),
			Model:   v.GetString("gemini.model"),
			Timeout: v.GetDuration("assistant.timeout"),
		},
		Scheduler: SchedulerConfig{
			AlertCron: v.GetString("alert.cron"),
		},
	}

	ratio, err := decimal.NewFromString(v.GetString("ledger.cost.ratio"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_COST_RATIO: %w", err)
	}
	cfg.Ledger.CostRatio = ratio

	if cfg.Ledger.BaselineSales, err = decimal.NewFromString(v.GetString("ledger.baseline.sales")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_BASELINE_SALES: %w", err)
	}
	if cfg.Ledger.BaselineProfit, err = decimal.NewFromString(v.GetString("ledger.baseline.profit")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_BASELINE_PROFIT: %w", err)
	}

	cfg.Ledger.CategoryCostRatios, err = parseCategoryRatios(v.GetString("ledger.category.cost.ratios"))
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" && cfg.Database.URL == "" {
		cfg.Database.URL = "bizpilot.db"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "BizPilot Ledger")
	v.SetDefault("app.env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("db.driver", "")
	v.SetDefault("database.url", "")
	v.SetDefault("jwt.secret", "your-super-secret-key-change-in-production")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("ledger.cost.ratio", "0.7")
	v.SetDefault("ledger.category.cost.ratios", "")
	v.SetDefault("ledger.stock.policy", "clamp")
	v.SetDefault("ledger.seed.catalog", true)
	v.SetDefault("ledger.growth.baseline", "prior")
	v.SetDefault("ledger.baseline.sales", "0")
	v.SetDefault("ledger.baseline.profit", "0")
	v.SetDefault("gemini.api.key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("assistant.timeout", "15s")
	v.SetDefault("alert.cron", "0 8 * * *")
}

// parseCategoryRatios reads "Coffee=0.6,Honey=0.5"
func parseCategoryRatios(raw string) (map[string]decimal.Decimal, error) {
	ratios := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		category, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("invalid LEDGER_CATEGORY_COST_RATIOS entry %q", pair)
		}
		ratio, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid cost ratio for %q: %w", category, err)
		}
		ratios[strings.TrimSpace(category)] = ratio
	}
	return ratios, nil
}

func (c *Config) validate() error {
	if err := validRatio(c.Ledger.CostRatio); err != nil {
		return fmt.Errorf("LEDGER_COST_RATIO: %w", err)
	}
	for category, ratio := range c.Ledger.CategoryCostRatios {
		if err := validRatio(ratio); err != nil {
			return fmt.Errorf("cost ratio for %q: %w", category, err)
		}
	}
	switch c.Ledger.StockPolicy {
	case "clamp", "reject":
	default:
		return fmt.Errorf("LEDGER_STOCK_POLICY must be clamp or reject, got %q", c.Ledger.StockPolicy)
	}
	switch c.Ledger.GrowthBaseline {
	case "prior":
	case "fixed":
		if c.Ledger.BaselineSales.IsNegative() || c.Ledger.BaselineProfit.IsNegative() {
			return fmt.Errorf("LEDGER_BASELINE_SALES and LEDGER_BASELINE_PROFIT must not be negative")
		}
	default:
		return fmt.Errorf("LEDGER_GROWTH_BASELINE must be prior or fixed, got %q", c.Ledger.GrowthBaseline)
	}
	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	return nil
}

func validRatio(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("must be within [0, 1), got %s", r)
	}
	return nil
}
