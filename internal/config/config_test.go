package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "BizPilot Ledger", cfg.App.Name)
		assert.Equal(t, "3000", cfg.App.Port)
		assert.Equal(t, "", cfg.Database.Driver)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.True(t, decimal.RequireFromString("0.7").Equal(cfg.Ledger.CostRatio))
		assert.Empty(t, cfg.Ledger.CategoryCostRatios)
		assert.Equal(t, "clamp", cfg.Ledger.StockPolicy)
		assert.True(t, cfg.Ledger.SeedCatalog)
		assert.Equal(t, "prior", cfg.Ledger.GrowthBaseline)
		assert.True(t, cfg.Ledger.BaselineSales.IsZero())
		assert.Equal(t, "gemini-2.0-flash", cfg.Assistant.Model)
		assert.Equal(t, 15*time.Second, cfg.Assistant.Timeout)
		assert.True(t, cfg.Scheduler.AlertsEnabled())
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("LEDGER_COST_RATIO", "0.65")
		t.Setenv("LEDGER_CATEGORY_COST_RATIOS", "Coffee=0.6, Honey = 0.5")
		t.Setenv("LEDGER_STOCK_POLICY", "reject")
		t.Setenv("LEDGER_SEED_CATALOG", "false")
		t.Setenv("ASSISTANT_TIMEOUT", "3s")
		t.Setenv("ALERT_CRON", "off")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "bizpilot.db", cfg.Database.URL)
		assert.True(t, decimal.RequireFromString("0.65").Equal(cfg.Ledger.CostRatio))
		require.Len(t, cfg.Ledger.CategoryCostRatios, 2)
		assert.True(t, decimal.RequireFromString("0.6").Equal(cfg.Ledger.CategoryCostRatios["Coffee"]))
		assert.True(t, decimal.RequireFromString("0.5").Equal(cfg.Ledger.CategoryCostRatios["Honey"]))
		assert.Equal(t, "reject", cfg.Ledger.StockPolicy)
		assert.False(t, cfg.Ledger.SeedCatalog)
		assert.Equal(t, 3*time.Second, cfg.Assistant.Timeout)
		assert.False(t, cfg.Scheduler.AlertsEnabled())
	})
}

func TestLoad_FixedGrowthBaseline(t *testing.T) {
	t.Setenv("LEDGER_GROWTH_BASELINE", "Fixed")
	t.Setenv("LEDGER_BASELINE_SALES", "5000")
	t.Setenv("LEDGER_BASELINE_PROFIT", "1500.50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fixed", cfg.Ledger.GrowthBaseline)
	assert.True(t, decimal.RequireFromString("5000").Equal(cfg.Ledger.BaselineSales))
	assert.True(t, decimal.RequireFromString("1500.5").Equal(cfg.Ledger.BaselineProfit))

	t.Setenv("LEDGER_BASELINE_SALES", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		msg  string
	}{
		{"cost ratio not a number", "LEDGER_COST_RATIO", "abc", "LEDGER_COST_RATIO"},
		{"cost ratio of one", "LEDGER_COST_RATIO", "1", "LEDGER_COST_RATIO"},
		{"negative cost ratio", "LEDGER_COST_RATIO", "-0.1", "LEDGER_COST_RATIO"},
		{"malformed category ratios", "LEDGER_CATEGORY_COST_RATIOS", "Coffee", "LEDGER_CATEGORY_COST_RATIOS"},
		{"category ratio out of range", "LEDGER_CATEGORY_COST_RATIOS", "Coffee=1.5", "Coffee"},
		{"unknown stock policy", "LEDGER_STOCK_POLICY", "maybe", "LEDGER_STOCK_POLICY"},
		{"unknown driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"postgres without url", "DB_DRIVER", "postgres", "DATABASE_URL"},
		{"unknown growth baseline", "LEDGER_GROWTH_BASELINE", "yesterday", "LEDGER_GROWTH_BASELINE"},
		{"baseline sales not a number", "LEDGER_BASELINE_SALES", "lots", "LEDGER_BASELINE_SALES"},
		{"baseline profit not a number", "LEDGER_BASELINE_PROFIT", "n/a", "LEDGER_BASELINE_PROFIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
