package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "ledger.db", cfg.Store.DSN)
	assert.Equal(t, "0.01", cfg.Reconcile.Epsilon)
	assert.Equal(t, "INITIAL_BALANCE_ADJUSTMENT", cfg.Reconcile.SentinelReference)
	assert.Equal(t, "SOLDE INITIAL", cfg.Reconcile.OpeningBalanceMarker)
	assert.Equal(t, "rules.yaml", cfg.Rules.File)
	assert.Equal(t, "https://api.enablebanking.com", cfg.Bank.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_STORE_DSN", ":memory:")
	t.Setenv("ENABLE_BANKING_TOKEN", "tok-123")
	t.Setenv("ENABLE_BANKING_SESSION_ID", "sess-456")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Store.DSN)
	assert.Equal(t, "tok-123", cfg.Bank.Token)
	assert.Equal(t, "sess-456", cfg.Bank.SessionID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("LEDGER_LOG_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown log format", func(t *testing.T) {
		t.Setenv("LEDGER_LOG_FORMAT", "xml")
		_, err := Load()
		assert.Error(t, err)
	})
}
