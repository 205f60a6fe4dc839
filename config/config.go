// Package config loads bot configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leviob/dvabot/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the strategy parameters the bot has been trading with:
// a 6-hour candle feed averaged over 100 periods (25 days) and USD sizing
// bounds of 5-40 per run.
const (
	defaultCandleInterval = "6hr"
	defaultAverageWindow  = 100
	defaultStrategyTag    = "bot_v2"
	defaultRunInterval    = 72 * time.Hour
	defaultRetryCount     = 50
	defaultRetryDelay     = 10 * time.Second
)

// Notify holds email delivery settings for final-failure notifications.
// An empty To address disables notifications.
type Notify struct {
	To       string `yaml:"to"`
	From     string `yaml:"from"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// Config is the full configuration for one trading pair.
type Config struct {
	Pair           domain.Pair
	APIBase        string
	MinPurchase    decimal.Decimal
	MaxPurchase    decimal.Decimal
	GoodRatio      decimal.Decimal
	PoorRatio      decimal.Decimal
	DangerRatio    decimal.Decimal
	MaxSpread      decimal.Decimal
	ExchangeMinQty decimal.Decimal
	AverageWindow  int
	CandleInterval string
	StrategyTag    string
	RunInterval    time.Duration
	RetryCount     int
	RetryDelay     time.Duration
	Notify         Notify
}

// ConfigTmp is the YAML shape; decimal fields travel as strings to avoid
// float precision loss.
type ConfigTmp struct {
	Pair           string        `yaml:"pair"`
	APIBase        string        `yaml:"api_base,omitempty"`
	MinPurchase    string        `yaml:"min_purchase"`
	MaxPurchase    string        `yaml:"max_purchase"`
	GoodRatio      string        `yaml:"good_ratio"`
	PoorRatio      string        `yaml:"poor_ratio"`
	DangerRatio    string        `yaml:"danger_ratio"`
	MaxSpread      string        `yaml:"max_spread,omitempty"`
	ExchangeMinQty string        `yaml:"exchange_min_qty"`
	AverageWindow  int           `yaml:"average_window,omitempty"`
	CandleInterval string        `yaml:"candle_interval,omitempty"`
	StrategyTag    string        `yaml:"strategy_tag,omitempty"`
	RunInterval    time.Duration `yaml:"run_interval,omitempty"`
	RetryCount     int           `yaml:"retry_count,omitempty"`
	RetryDelay     time.Duration `yaml:"retry_delay,omitempty"`
	Notify         Notify        `yaml:"notify,omitempty"`
}

// Get reads configuration from --config YAML when provided, otherwise from
// CLI flags.
func Get() ([]Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", "ETH_USD", "trade pair, example: ETH_USD")
	minFlag := flag.String("minpurchase", "5", "minimum USD purchase per run")
	maxFlag := flag.String("maxpurchase", "40", "maximum USD purchase per run")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := getPairFromString(*pairFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}
	minPurchase, err := decimal.NewFromString(*minFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --minpurchase provided: %w", err)
	}
	maxPurchase, err := decimal.NewFromString(*maxFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --maxpurchase provided: %w", err)
	}

	conf := Config{
		Pair:        pair,
		MinPurchase: minPurchase,
		MaxPurchase: maxPurchase,
		GoodRatio:   decimal.RequireFromString("0.85"),
		PoorRatio:   decimal.RequireFromString("1.2"),
		DangerRatio: decimal.RequireFromString("1.5"),
	}
	applyDefaults(&conf)

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return []Config{conf}, nil
}

func getYaml(path string) ([]Config, error) {
	var configsTmp []ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(f, &configsTmp); err != nil {
		return nil, err
	}

	configs := make([]Config, 0, len(configsTmp))
	for _, c := range configsTmp {
		conf, err := fromTmp(c)
		if err != nil {
			return nil, err
		}
		configs = append(configs, conf)
	}

	return configs, nil
}

func fromTmp(c ConfigTmp) (Config, error) {
	pair, err := getPairFromString(c.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", c.Pair, err)
	}

	conf := Config{
		Pair:           pair,
		APIBase:        c.APIBase,
		AverageWindow:  c.AverageWindow,
		CandleInterval: c.CandleInterval,
		StrategyTag:    c.StrategyTag,
		RunInterval:    c.RunInterval,
		RetryCount:     c.RetryCount,
		RetryDelay:     c.RetryDelay,
		Notify:         c.Notify,
	}

	decimals := []struct {
		name     string
		raw      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"min_purchase", c.MinPurchase, "5", &conf.MinPurchase},
		{"max_purchase", c.MaxPurchase, "40", &conf.MaxPurchase},
		{"good_ratio", c.GoodRatio, "0.85", &conf.GoodRatio},
		{"poor_ratio", c.PoorRatio, "1.2", &conf.PoorRatio},
		{"danger_ratio", c.DangerRatio, "1.5", &conf.DangerRatio},
		{"max_spread", c.MaxSpread, "10", &conf.MaxSpread},
		{"exchange_min_qty", c.ExchangeMinQty, "0.001", &conf.ExchangeMinQty},
	}
	for _, d := range decimals {
		raw := d.raw
		if raw == "" {
			raw = d.fallback
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect '%s' param in yaml config (must be a decimal), error: %w", d.name, err)
		}
		*d.dst = v
	}

	applyDefaults(&conf)

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func applyDefaults(conf *Config) {
	if conf.APIBase == "" {
		conf.APIBase = "https://api.gemini.com"
	}
	if conf.MaxSpread.IsZero() {
		conf.MaxSpread = decimal.NewFromInt(10)
	}
	if conf.ExchangeMinQty.IsZero() {
		conf.ExchangeMinQty = decimal.RequireFromString("0.001")
	}
	if conf.AverageWindow == 0 {
		conf.AverageWindow = defaultAverageWindow
	}
	if conf.CandleInterval == "" {
		conf.CandleInterval = defaultCandleInterval
	}
	if conf.StrategyTag == "" {
		conf.StrategyTag = defaultStrategyTag
	}
	if conf.RunInterval == 0 {
		conf.RunInterval = defaultRunInterval
	}
	if conf.RetryCount == 0 {
		conf.RetryCount = defaultRetryCount
	}
	if conf.RetryDelay == 0 {
		conf.RetryDelay = defaultRetryDelay
	}
}

// Validate enforces configuration invariants. The ratio ordering
// good < poor < danger is required for the valuation formula to make sense.
func (c Config) Validate() error {
	if c.MinPurchase.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("min_purchase must be positive, got %s", c.MinPurchase.String())
	}
	if c.MaxPurchase.LessThan(c.MinPurchase) {
		return fmt.Errorf("max_purchase %s must not be below min_purchase %s",
			c.MaxPurchase.String(), c.MinPurchase.String())
	}
	if !c.GoodRatio.LessThan(c.PoorRatio) || !c.PoorRatio.LessThan(c.DangerRatio) {
		return fmt.Errorf("ratio thresholds must satisfy good < poor < danger, got %s, %s, %s",
			c.GoodRatio.String(), c.PoorRatio.String(), c.DangerRatio.String())
	}
	if c.GoodRatio.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("good_ratio must be positive, got %s", c.GoodRatio.String())
	}
	if c.MaxSpread.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("max_spread must be positive, got %s", c.MaxSpread.String())
	}
	if c.ExchangeMinQty.LessThan(decimal.Zero) {
		return fmt.Errorf("exchange_min_qty must not be negative, got %s", c.ExchangeMinQty.String())
	}
	if c.AverageWindow <= 0 {
		return fmt.Errorf("average_window must be positive, got %d", c.AverageWindow)
	}
	if c.StrategyTag == "" {
		return fmt.Errorf("strategy_tag must not be empty")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("retry_count must not be negative, got %d", c.RetryCount)
	}
	return nil
}

func getPairFromString(pairStr string) (domain.Pair, error) {
	pairElements := strings.Split(pairStr, "_")
	if len(pairElements) != 2 {
		return domain.Pair{}, fmt.Errorf("invalid pair param")
	}
	return domain.Pair{From: pairElements[0], To: pairElements[1]}, nil
}
