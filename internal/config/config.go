// Package config provides Viper-based hierarchical configuration management
// for the reconciliation tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		// DSN is the sqlite database path. ":memory:" keeps the ledger
		// in-process, which is what the tests use.
		DSN string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"store" yaml:"store"`

	Reconcile struct {
		// Epsilon is the currency tolerance under which a balance
		// difference is considered reconciled.
		Epsilon string `mapstructure:"epsilon" yaml:"epsilon"`
		// SentinelReference tags the synthetic adjustment transaction.
		SentinelReference string `mapstructure:"sentinel_reference" yaml:"sentinel_reference"`
		// OpeningBalanceMarker protects the opening-balance row from
		// cutoff cleanup.
		OpeningBalanceMarker string `mapstructure:"opening_balance_marker" yaml:"opening_balance_marker"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Bank struct {
		BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
		SessionID string `mapstructure:"session_id" yaml:"-"`
		Token     string `mapstructure:"token" yaml:"-"` // never serialized
	} `mapstructure:"bank" yaml:"bank"`
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config.yaml, then LEDGER_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ledger-recon")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	// The bank token always comes from the environment, unprefixed, so the
	// same variable works for the session bootstrap scripts.
	if err := v.BindEnv("bank.token", "ENABLE_BANKING_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding ENABLE_BANKING_TOKEN: %w", err)
	}
	if err := v.BindEnv("bank.session_id", "ENABLE_BANKING_SESSION_ID"); err != nil {
		return nil, fmt.Errorf("binding ENABLE_BANKING_SESSION_ID: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.dsn", "ledger.db")

	v.SetDefault("reconcile.epsilon", "0.01")
	v.SetDefault("reconcile.sentinel_reference", "INITIAL_BALANCE_ADJUSTMENT")
	v.SetDefault("reconcile.opening_balance_marker", "SOLDE INITIAL")

	v.SetDefault("rules.file", "rules.yaml")

	v.SetDefault("bank.base_url", "https://api.enablebanking.com")
}

func validate(c *Config) error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Reconcile.SentinelReference == "" {
		return fmt.Errorf("reconcile.sentinel_reference must not be empty")
	}

	return nil
}
