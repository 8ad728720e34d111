package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Database DatabaseConfig
	Market   MarketConfig
	Contract ContractConfig
	Pricing  PricingConfig
	Metrics  MetricsConfig
}

// DatabaseConfig defines the storage connection settings. Empty DSNs mean
// in-memory stores.
type DatabaseConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

// MarketConfig defines the starting market conditions and the optional
// live ticker feed.
type MarketConfig struct {
	FeedEndpoint          string  `mapstructure:"feed_endpoint"`
	BTCPriceUSD           float64 `mapstructure:"btc_price_usd"`
	Difficulty            float64 `mapstructure:"difficulty"`
	BlockReward           float64 `mapstructure:"block_reward"`
	MonthlyDiffGrowthPct  float64 `mapstructure:"monthly_diff_growth_pct"`
	MonthlyPriceGrowthPct float64 `mapstructure:"monthly_price_growth_pct"`
	HalvingDate           string  `mapstructure:"halving_date"` // YYYY-MM-DD, optional
}

// ContractConfig defines the default hosting contract terms.
type ContractConfig struct {
	ElectricityRate float64 `mapstructure:"electricity_rate"`
	OpexRate        float64 `mapstructure:"opex_rate"`
	PoolFeePct      float64 `mapstructure:"pool_fee_pct"`
	DurationYears   float64 `mapstructure:"duration_years"`
	AdvanceYears    float64 `mapstructure:"advance_years"`
	SetupFeeUSD     float64 `mapstructure:"setup_fee_usd"`
	SetupFeeBTCPct  float64 `mapstructure:"setup_fee_btc_pct"`
	HardwareCostUSD float64 `mapstructure:"hardware_cost_usd"`
	MarkupBTCPct    float64 `mapstructure:"markup_btc_pct"`
}

// PricingConfig selects the pricing policy used for price lists.
type PricingConfig struct {
	Policy       string  `mapstructure:"policy"` // TWO_PASS or CLOSED_FORM
	TargetMargin float64 `mapstructure:"target_margin"`
	Denomination string  `mapstructure:"denomination"` // btc or usd
}

// MetricsConfig defines the optional metrics endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
