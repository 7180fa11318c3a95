// Package root contains the root command for the reconciliation CLI.
package root

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"restobook/recon/internal/categorizer"
	"restobook/recon/internal/config"
	"restobook/recon/internal/ledger"
	"restobook/recon/internal/logging"
	"restobook/recon/internal/recon"
	"restobook/recon/internal/reconciler"

	"github.com/shopspring/decimal"
)

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapterFromLogger(logrus.New())

	// Cfg is the loaded application configuration, available to
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ledger-recon",
		Short: "Administrative reconciliation tooling for the restaurant ledger.",
		Long: `ledger-recon imports bank and cash-register transaction feeds into a
single ledger, deduplicates them, reconciles the ledger against the bank's
reported balance and categorizes transactions by keyword rules.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv(logrus.StandardLogger())

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// OpenService opens the sqlite ledger from the configuration and builds the
// reconciliation service over it.
func OpenService() (*recon.Service, *ledger.GormStore, error) {
	store, err := ledger.Open(Cfg.Store.DSN)
	if err != nil {
		return nil, nil, err
	}

	epsilon, err := decimal.NewFromString(Cfg.Reconcile.Epsilon)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid reconcile.epsilon %q: %w", Cfg.Reconcile.Epsilon, err)
	}

	svc, err := recon.New(store, categorizer.NewYAMLRuleStore(Cfg.Rules.File), reconciler.Options{
		Epsilon:              epsilon,
		SentinelReference:    Cfg.Reconcile.SentinelReference,
		OpeningBalanceMarker: Cfg.Reconcile.OpeningBalanceMarker,
	}, Log)
	if err != nil {
		return nil, nil, err
	}
	return svc, store, nil
}
